package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-autofill/internal/autofill"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, autofill.ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, autofill.ErrMaxAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
