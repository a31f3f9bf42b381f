package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a request the engine could not carry out.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the editor session.
	Session string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStopped indicates the engine was stopped before the request ran.
	ErrCodeStopped RuntimeErrorCode = "ENGINE_STOPPED"

	// ErrCodeNoOverlay indicates a form submission with no matching overlay open.
	ErrCodeNoOverlay RuntimeErrorCode = "NO_OVERLAY"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsStopped returns true if the error reports a stopped engine.
func IsStopped(err error) bool { return hasCode(err, ErrCodeStopped) }

// IsNoOverlay returns true if the error reports a missing overlay.
func IsNoOverlay(err error) bool { return hasCode(err, ErrCodeNoOverlay) }
