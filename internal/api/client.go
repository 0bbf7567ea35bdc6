// Package api is the client for the remote job-assistant service that owns the user's
// profile, resume, match scoring, cover letters and application tracking.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-autofill/internal/types"
)

const (
	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second
	// DefaultProfileTTL is how long a fetched profile is reused.
	DefaultProfileTTL = 5 * time.Minute
	// DefaultRequestsPerSecond is the client-side request rate.
	DefaultRequestsPerSecond = 5
	// DefaultBurst is the limiter burst.
	DefaultBurst = 10

	maxResponseBytes = 20 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	ProfileTTL        time.Duration
	RequestsPerSecond float64
	Burst             int
	Verbose           bool
}

// Claims are the fields the client reads from the bearer token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	ttl     time.Duration
	verbose bool
	now     func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	profile   *types.Profile
	profileAt time.Time
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{Op: "configure", Message: fmt.Sprintf("invalid base URL %q", cfg.BaseURL), Cause: err}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ProfileTTL <= 0 {
		cfg.ProfileTTL = DefaultProfileTTL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	return &Client{
		baseURL: u,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		ttl:     cfg.ProfileTTL,
		verbose: cfg.Verbose,
		now:     time.Now,
	}, nil
}

// TokenClaims decodes the bearer token without verifying its signature; the server
// verifies it. Opaque (non-JWT) tokens return an error.
func (c *Client) TokenClaims() (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// checkToken fails fast when the token is a JWT whose expiry has passed.
func (c *Client) checkToken() error {
	if c.token == "" {
		return &Error{Op: "authenticate", Message: "no API token configured", Cause: ErrUnauthorized}
	}
	claims, err := c.TokenClaims()
	if err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time) {
		return &Error{Op: "authenticate", Message: "token expired at " + claims.ExpiresAt.Time.Format(time.RFC3339), Cause: ErrTokenExpired}
	}
	return nil
}

// request sends one call. in is JSON-encoded when non-nil; the raw response is returned
// for 2xx statuses.
func (c *Client) request(ctx context.Context, op, method, path string, in any) (*http.Response, []byte, error) {
	if err := c.checkToken(); err != nil {
		return nil, nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, &Error{Op: op, Message: "rate limiter", Cause: err}
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, nil, &Error{Op: op, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, nil, &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.verbose {
		log.Printf("[VERBOSE] API %s %s", method, endpoint.Path)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &Error{Op: op, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, statusError(op, resp.StatusCode, data)
	}
	return resp, data, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	_, data, err := c.request(ctx, op, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func statusError(op string, status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}

	e := &Error{Op: op, StatusCode: status, Message: msg}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Cause = ErrUnauthorized
	case http.StatusNotFound:
		e.Cause = ErrNotFound
	}
	return e
}
