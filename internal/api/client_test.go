package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/types"
)

func signToken(t *testing.T, userID uuid.UUID, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Token: token, RequestsPerSecond: 1000, Burst: 1000})
	require.NoError(t, err)
	return c, srv
}

func profileHandler(hits *atomic.Int32, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != PathProfile || r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`))
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "://bad"} {
		_, err := New(Config{BaseURL: u})
		assert.Error(t, err, u)
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{BaseURL: "https://api.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileTTL, c.ttl)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "https://api.example.com", c.baseURL.String())
}

func TestProfile_CachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, profileHandler(&hits, "opaque-token"), "opaque-token")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	p, err := c.Profile(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.DisplayName())

	_, err = c.Profile(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	now = now.Add(DefaultProfileTTL)
	_, err = c.Profile(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "expired cache refetches")

	c.InvalidateProfile()
	_, err = c.Profile(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestProfile_ConcurrentCallersShareRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		profileHandler(&hits, "tok")(w, r)
	})
	c, _ := newTestClient(t, handler, "tok")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Profile(context.Background())
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestRequest_TokenChecks(t *testing.T) {
	var hits atomic.Int32
	handler := profileHandler(&hits, "")

	t.Run("expired jwt fails before sending", func(t *testing.T) {
		c, _ := newTestClient(t, handler, signToken(t, uuid.New(), time.Now().Add(-time.Minute)))
		_, err := c.Profile(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("missing token", func(t *testing.T) {
		c, _ := newTestClient(t, handler, "")
		_, err := c.Profile(t.Context())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, int32(0), hits.Load())
	})
}

func TestTokenClaims(t *testing.T) {
	id := uuid.New()
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	c, err := New(Config{BaseURL: "https://api.example.com", Token: signToken(t, id, expires)})
	require.NoError(t, err)

	claims, err := c.TokenClaims()
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.True(t, expires.Equal(claims.ExpiresAt.Time))
	assert.NoError(t, c.checkToken())

	opaque, err := New(Config{BaseURL: "https://api.example.com", Token: "not-a-jwt"})
	require.NoError(t, err)
	_, err = opaque.TokenClaims()
	assert.Error(t, err)
	assert.NoError(t, opaque.checkToken(), "opaque tokens are sent as-is")
}

func TestRequest_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		cause   error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid token"}`, ErrUnauthorized, "invalid token"},
		{"forbidden", http.StatusForbidden, ``, ErrUnauthorized, ""},
		{"not found", http.StatusNotFound, `{"message":"no profile"}`, ErrNotFound, "no profile"},
		{"server error", http.StatusInternalServerError, `upstream exploded`, nil, "upstream exploded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), "tok")

			_, err := c.Profile(t.Context())
			require.Error(t, err)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "profile", apiErr.Op)
			assert.Equal(t, tt.message, apiErr.Message)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestRequest_CanceledContext(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, profileHandler(&hits, "tok"), "tok")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestResume(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		want        string
	}{
		{"filename from header", `attachment; filename="jane_cv.pdf"`, "jane_cv.pdf"},
		{"path components stripped", `attachment; filename="../../etc/cv.docx"`, "cv.docx"},
		{"no header", "", "resume.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, PathResume, r.URL.Path)
				if tt.disposition != "" {
					w.Header().Set("Content-Disposition", tt.disposition)
				}
				_, _ = w.Write([]byte("%PDF-1.4"))
			}), "tok")

			name, data, err := c.Resume(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
			assert.Equal(t, "%PDF-1.4", string(data))
		})
	}
}

func TestMatchScoreAndCoverLetter(t *testing.T) {
	job := &types.JobRecord{Title: "Go Engineer", Company: "Acme", URL: "https://acme.com/jobs/1"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathMatchScore, func(w http.ResponseWriter, r *http.Request) {
		var got types.JobRecord
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil || got.Title != "Go Engineer" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"score":82,"matchedSkills":["Go"],"missingSkills":["Rust"],"summary":"Strong fit"}`))
	})
	mux.HandleFunc("POST "+PathCoverLetter, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"coverLetter":"Dear Acme"}`))
	})
	c, _ := newTestClient(t, mux, "tok")

	score, err := c.MatchScore(t.Context(), job)
	require.NoError(t, err)
	assert.Equal(t, &MatchScore{Score: 82, MatchedSkills: []string{"Go"}, MissingSkills: []string{"Rust"}, Summary: "Strong fit"}, score)

	letter, err := c.CoverLetter(t.Context(), job)
	require.NoError(t, err)
	assert.Equal(t, "Dear Acme", letter)
}

func TestTrackApplication(t *testing.T) {
	received := make(chan Application, 2)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathApplications, r.URL.Path)
		var app Application
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&app))
		received <- app
		w.WriteHeader(http.StatusCreated)
	}), "tok")
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	c.now = func() time.Time { return now }

	job := &types.JobRecord{Title: "Go Engineer", Company: "Acme"}
	require.NoError(t, c.TrackApplication(t.Context(), job, &types.FillResult{FieldsFilled: 7, Navigation: "submit"}))
	got := <-received
	assert.Equal(t, "submitted", got.Status)
	assert.Equal(t, 7, got.FieldsFilled)
	assert.True(t, now.Equal(got.SubmittedAt))
	assert.Equal(t, "Acme", got.Job.Company)

	require.NoError(t, c.TrackApplication(t.Context(), job, nil))
	got = <-received
	assert.Equal(t, "started", got.Status)
	assert.Zero(t, got.FieldsFilled)
	assert.Nil(t, got.Result)
}

func TestError_Message(t *testing.T) {
	err := &Error{Op: "profile", StatusCode: 404, Message: "no profile", Cause: ErrNotFound}
	assert.Equal(t, "api profile failed (HTTP 404): no profile: not found", err.Error())
	assert.Equal(t, "api configure failed", (&Error{Op: "configure"}).Error())
}
