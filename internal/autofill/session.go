package autofill

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-autofill/internal/discovery"
)

var (
	// ErrMaxAttempts is returned when the attempt ceiling was reached within the cooldown window.
	ErrMaxAttempts = errors.New("maximum autofill attempts reached")
	// ErrInProgress is returned when a pass is already running for the session.
	ErrInProgress = errors.New("autofill already in progress")
)

// SessionError reports a rejected autofill invocation. Rejections never touch the page.
type SessionError struct {
	SessionID uuid.UUID
	Attempts  int
	Message   string
	Cause     error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("autofill session %s rejected: %s: %v", e.SessionID, e.Message, e.Cause)
	}
	return fmt.Sprintf("autofill session %s rejected: %s", e.SessionID, e.Message)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// Clock abstracts time for cooldown tracking.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Session is the autofill state of one page lifetime. Orchestrators sharing a Session
// share its attempt ceiling and in-progress guard.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	attempts    int
	inProgress  bool
	lastAttempt time.Time
	filled      map[string]struct{}
	form        discovery.FormState
}

// NewSession creates an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{
		ID:     uuid.New(),
		filled: make(map[string]struct{}),
		form:   discovery.FormState{CurrentPage: 1},
	}
}

// Attempts returns the number of passes counted toward the ceiling.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// InProgress reports whether a pass is running.
func (s *Session) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

// Form returns the navigation state observed by the last pass.
func (s *Session) Form() discovery.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Filled reports whether identity was filled during the current or last pass.
func (s *Session) Filled(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.filled[identity]
	return ok
}

// begin admits a new pass or rejects it. The attempt counter resets once cooldown has
// passed since the previous pass; the filled set is cleared for every admitted pass.
func (s *Session) begin(now time.Time, maxAttempts int, cooldown time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inProgress {
		return 0, &SessionError{SessionID: s.ID, Attempts: s.attempts, Message: "a pass is already running", Cause: ErrInProgress}
	}
	if !s.lastAttempt.IsZero() && now.Sub(s.lastAttempt) >= cooldown {
		s.attempts = 0
	}
	if s.attempts >= maxAttempts {
		wait := cooldown - now.Sub(s.lastAttempt)
		return 0, &SessionError{
			SessionID: s.ID,
			Attempts:  s.attempts,
			Message:   fmt.Sprintf("%d attempts made, retry in %s", s.attempts, wait.Round(time.Millisecond)),
			Cause:     ErrMaxAttempts,
		}
	}

	s.attempts++
	s.inProgress = true
	s.lastAttempt = now
	s.filled = make(map[string]struct{})
	return s.attempts, nil
}

func (s *Session) end(now time.Time, form discovery.FormState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	s.lastAttempt = now
	s.form = form
}

func (s *Session) markFilled(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filled[identity] = struct{}{}
}
