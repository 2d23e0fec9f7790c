package assist

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every gateway failure via errors.Is
var ErrRequestFailed = errors.New("AI request failed")

// ErrInFlight is returned when a field already has an outstanding request
var ErrInFlight = errors.New("AI request already in progress for field")

// ErrNoSuggestion is returned when accepting a field with nothing to accept
var ErrNoSuggestion = errors.New("no suggestion available for field")

// RequestFailedError is the single error kind surfaced by the Gateway:
// transport failure, timeout, cancellation or a non-2xx response.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, ErrRequestFailed)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *RequestFailedError) Unwrap() error {
	return e.Cause
}

// Is makes every RequestFailedError match ErrRequestFailed.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}
