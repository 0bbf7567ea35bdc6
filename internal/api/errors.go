package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenExpired is returned before any request when the bearer token's exp has passed.
	ErrTokenExpired = errors.New("API token expired")
	// ErrUnauthorized is the cause of a 401 or 403 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is the cause of a 404 response.
	ErrNotFound = errors.New("not found")
)

// Error describes a failed API call.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("api %s failed", e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
