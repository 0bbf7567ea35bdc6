package filler

import (
	"errors"
	"fmt"
)

// ErrNoOption is returned when no select option or radio in the group agrees with the value.
var ErrNoOption = errors.New("no option matches value")

// ErrUnsupported is returned for controls the executor does not write (buttons, images, ...).
var ErrUnsupported = errors.New("unsupported control")

// ErrNoResume is returned for file controls when no resume source is configured.
var ErrNoResume = errors.New("no resume source configured")

// FillError wraps a failure to write one control.
type FillError struct {
	Identity string
	Message  string
	Cause    error
}

func (e *FillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fill error for %s: %s: %v", e.Identity, e.Message, e.Cause)
	}
	return fmt.Sprintf("fill error for %s: %s", e.Identity, e.Message)
}

func (e *FillError) Unwrap() error {
	return e.Cause
}
