package graph

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes rejected store mutations.
type ErrorCode string

const (
	// ErrCodeDuplicateID indicates an add or rename collides with another node.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeNodeNotFound indicates the mutation names a node that does not exist.
	ErrCodeNodeNotFound ErrorCode = "NODE_NOT_FOUND"

	// ErrCodeInvalidID indicates an id that is empty after normalization.
	ErrCodeInvalidID ErrorCode = "INVALID_ID"
)

// Error is returned by store mutators. The store is unchanged when one is
// returned.
type Error struct {
	Code ErrorCode
	ID   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeDuplicateID:
		return fmt.Sprintf("%s: node %q already exists", e.Code, e.ID)
	case ErrCodeNodeNotFound:
		return fmt.Sprintf("%s: node %q does not exist", e.Code, e.ID)
	case ErrCodeInvalidID:
		return fmt.Sprintf("%s: node id must not be empty", e.Code)
	}
	return fmt.Sprintf("%s: %q", e.Code, e.ID)
}

func hasCode(err error, code ErrorCode) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// IsDuplicateID reports whether err is a duplicate id rejection.
func IsDuplicateID(err error) bool { return hasCode(err, ErrCodeDuplicateID) }

// IsNodeNotFound reports whether err names a missing node.
func IsNodeNotFound(err error) bool { return hasCode(err, ErrCodeNodeNotFound) }

// IsInvalidID reports whether err rejects an empty id.
func IsInvalidID(err error) bool { return hasCode(err, ErrCodeInvalidID) }
