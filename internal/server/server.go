// Package server exposes the autofill engine over HTTP for pages posted as HTML.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/autofill"
	"github.com/jonathan/job-autofill/internal/discovery"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/dom/htmldom"
	"github.com/jonathan/job-autofill/internal/fieldmap"
	"github.com/jonathan/job-autofill/internal/filler"
	"github.com/jonathan/job-autofill/internal/jobdetect"
	"github.com/jonathan/job-autofill/internal/matcher"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/schemas"
	"github.com/jonathan/job-autofill/internal/types"
)

const (
	// DefaultMaxBodyBytes bounds a request body.
	DefaultMaxBodyBytes = 10 << 20
	// DefaultSessionTTL is how long an idle page session is kept.
	DefaultSessionTTL = 10 * time.Minute
)

// Config holds server configuration
type Config struct {
	Port              int
	RequestsPerSecond float64 // per client; 0 disables rate limiting
	Burst             int
	MaxBodyBytes      int64
	SessionTTL        time.Duration
	MaxAttempts       int
	Cooldown          time.Duration
	Resumes           filler.ResumeSource
	Profiles          ProfileSource              // profile for fill requests that carry none
	CoverLetters      autofill.CoverLetterSource // letters for posted jobs when the profile has none
	Verbose           bool
}

// ProfileSource is a cached remote profile. *api.Client implements it.
type ProfileSource interface {
	Profile(ctx context.Context) (*types.Profile, error)
	InvalidateProfile()
}

// Server represents the HTTP server
type Server struct {
	cfg        Config
	httpServer *http.Server
	table      fieldmap.Table
	now        func() time.Time

	limitMu  sync.Mutex
	limiters map[string]*clientLimiter

	sessionMu sync.Mutex
	sessions  map[string]*pageSession
}

// clientLimiter is the token bucket of one client IP.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// pageSession is the autofill session of one page URL, kept between requests so the
// attempt ceiling applies across repeated fills of the same page.
type pageSession struct {
	session  *autofill.Session
	lastUsed time.Time
}

// New creates a new server instance
func New(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.RequestsPerSecond))
	}

	s := &Server{
		cfg:      cfg,
		table:    fieldmap.Default(),
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
		sessions: make(map[string]*pageSession),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /fill", s.handleFill)
	mux.HandleFunc("POST /detect", s.handleDetect)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("DELETE /session", s.handleResetSession)
	if s.cfg.Profiles != nil {
		mux.HandleFunc("DELETE /profile", s.handleRefreshProfile)
	}
	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until ctx is canceled or the process receives SIGINT or SIGTERM, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies a token bucket per client IP. Health checks are never limited.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RequestsPerSecond <= 0 || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		limiter := s.limiter(extractClientID(r))
		if !limiter.Allow() {
			retry := int(max(1, 1/s.cfg.RequestsPerSecond))
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			log.Printf("[rate-limit] Rate limit exceeded for %s %s", r.Method, r.URL.Path)
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Rate limit exceeded. Please try again later.",
				"retry_after": retry,
			})
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.cfg.Burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}

// limiter returns the bucket of clientID. Full buckets idle for longer than SessionTTL
// are dropped on each lookup.
func (s *Server) limiter(clientID string) *rate.Limiter {
	now := s.now()
	s.limitMu.Lock()
	defer s.limitMu.Unlock()
	for id, cl := range s.limiters {
		if now.Sub(cl.lastSeen) > s.cfg.SessionTTL && cl.limiter.TokensAt(now) >= float64(s.cfg.Burst) {
			delete(s.limiters, id)
		}
	}

	cl, ok := s.limiters[clientID]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst)}
		s.limiters[clientID] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID returns the IP from RemoteAddr, or RemoteAddr itself when it has no port.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// PageRequest carries a page as HTML. URL is the address the page was loaded from; it
// selects platform rules and keys the fill session.
type PageRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// FillRequest is the body of POST /fill.
type FillRequest struct {
	PageRequest
	Profile  json.RawMessage `json:"profile"`
	Navigate bool            `json:"navigate"`
	Submit   bool            `json:"submit"`
}

// FillResponse is the result of a pass and the page as it looks afterwards.
type FillResponse struct {
	Result *types.FillResult `json:"result"`
	HTML   string            `json:"html"`
}

// DetectResponse is the body returned by POST /detect.
type DetectResponse struct {
	IsJobPage bool             `json:"isJobPage"`
	Job       *types.JobRecord `json:"job,omitempty"`
}

// MatchResponse is the body returned by POST /match.
type MatchResponse struct {
	Fields []observability.FieldMatch `json:"fields"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req FillRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	doc, err := parsePage(req.PageRequest)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	profile, err := s.profile(r.Context(), req.Profile)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var job *types.JobRecord
	if s.cfg.CoverLetters != nil && jobdetect.Detect(doc) {
		job = jobdetect.Extract(doc, s.now())
	}

	executor := filler.New(&filler.Options{Resumes: s.cfg.Resumes, Verbose: s.cfg.Verbose})
	defer func() {
		if err := executor.Close(); err != nil {
			log.Printf("[server] failed to clean up uploads: %v", err)
		}
	}()

	orchestrator := s.session(req.URL, executor, req.Navigate, req.Submit, job)
	result, err := orchestrator.Start(r.Context(), doc, profile)
	if result == nil {
		s.errorResponse(w, err)
		return
	}
	if err != nil {
		log.Printf("[server] fill of %s interrupted: %v", req.URL, err)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		s.errorResponse(w, fmt.Errorf("failed to render page: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, FillResponse{Result: result, HTML: buf.String()})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	doc, err := parsePage(req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !jobdetect.Detect(doc) {
		s.jsonResponse(w, http.StatusOK, DetectResponse{})
		return
	}
	s.jsonResponse(w, http.StatusOK, DetectResponse{IsJobPage: true, Job: jobdetect.Extract(doc, s.now())})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	doc, err := parsePage(req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MatchResponse{Fields: MatchFields(doc, s.table)})
}

// handleResetSession drops the fill session of ?url=, as navigating away does.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		s.errorResponse(w, &ErrValidation{Field: "url", Message: "is required"})
		return
	}
	s.sessionMu.Lock()
	delete(s.sessions, pageURL)
	s.sessionMu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshProfile drops the cached profile so the next fill fetches it again.
func (s *Server) handleRefreshProfile(w http.ResponseWriter, _ *http.Request) {
	s.cfg.Profiles.InvalidateProfile()
	w.WriteHeader(http.StatusNoContent)
}

// profile parses the profile carried by a fill request, falling back to Profiles when
// the request has none.
func (s *Server) profile(ctx context.Context, raw json.RawMessage) (*types.Profile, error) {
	if s.cfg.Profiles != nil && emptyJSON(raw) {
		p, err := s.cfg.Profiles.Profile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		return p, nil
	}
	return parseProfile(raw)
}

// session returns an orchestrator over the session of pageURL, creating the session when
// absent. Pages without a URL get a fresh session per request. Idle sessions are pruned
// on each lookup. job, when set, is the posting a generated cover letter is written for.
func (s *Server) session(pageURL string, f autofill.Filler, navigate, submit bool, job *types.JobRecord) *autofill.Orchestrator {
	cfg := &autofill.Config{
		MaxAttempts:  s.cfg.MaxAttempts,
		Cooldown:     s.cfg.Cooldown,
		AutoNavigate: navigate,
		AutoSubmit:   submit,
		Table:        s.table,
		CoverLetters: s.cfg.CoverLetters,
		Job:          job,
		Verbose:      s.cfg.Verbose,
	}
	if pageURL == "" {
		return autofill.New(cfg, f)
	}

	now := s.now()
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	for u, ps := range s.sessions {
		if now.Sub(ps.lastUsed) > s.cfg.SessionTTL {
			delete(s.sessions, u)
		}
	}

	ps, ok := s.sessions[pageURL]
	if !ok {
		ps = &pageSession{session: autofill.NewSession()}
		s.sessions[pageURL] = ps
	}
	ps.lastUsed = now
	cfg.Session = ps.session
	return autofill.New(cfg, f)
}

// MatchFields reports the attribute chosen for every fillable field of every form on doc.
func MatchFields(doc dom.Document, table fieldmap.Table) []observability.FieldMatch {
	rows := []observability.FieldMatch{}
	for _, form := range discovery.FindForms(doc) {
		for _, el := range discovery.Fields(form) {
			sig := analyzer.Analyze(doc, el)
			row := observability.FieldMatch{Field: FieldLabel(sig)}
			if res := matcher.Match(sig, table); res != nil {
				row.Attribute = res.Attribute.Name
				row.Pattern = res.Pattern
				row.Score = res.Score
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// FieldLabel is the most human-readable identifier of a field.
func FieldLabel(sig analyzer.Signature) string {
	for _, s := range []string{sig.Label, sig.Name, sig.ID, sig.Placeholder, sig.AriaLabel} {
		if s != "" {
			return s
		}
	}
	return sig.Tag
}

func parsePage(req PageRequest) (*htmldom.Document, error) {
	if req.HTML == "" {
		return nil, &ErrValidation{Field: "html", Message: "is required"}
	}
	doc, err := htmldom.ParseString(req.HTML, req.URL)
	if err != nil {
		return nil, &ErrValidation{Field: "html", Message: err.Error()}
	}
	return doc, nil
}

func emptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func parseProfile(raw json.RawMessage) (*types.Profile, error) {
	if emptyJSON(raw) {
		return nil, &ErrValidation{Field: "profile", Message: "is required"}
	}
	if err := schemas.ValidateProfile(raw); err != nil {
		return nil, &ErrValidation{Field: "profile", Message: err.Error()}
	}
	var p types.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ErrValidation{Field: "profile", Message: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return nil, &ErrValidation{Field: "profile", Message: err.Error()}
	}
	return &p, nil
}

// decode reads a JSON body of at most MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes err with the status HTTPStatus maps it to.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
