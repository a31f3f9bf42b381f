package library

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes library errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no map or revision with the given name.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidName indicates an empty map name.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"
)

// Error is returned for requests the library rejects.
type Error struct {
	Code ErrorCode
	Name string
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: %q", e.Code, e.Name)
	case ErrCodeInvalidName:
		return fmt.Sprintf("%s: map name must not be empty", e.Code)
	}
	return string(e.Code)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == ErrCodeNotFound
	}
	return false
}
