package document

import (
	"errors"
	"fmt"
)

// MalformedDocumentError reports input that is not a valid document. Path
// locates the offending value, e.g. "nodes[2].x".
type MalformedDocumentError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	msg := "malformed document"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying parse error, if any.
func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is a MalformedDocumentError.
func IsMalformed(err error) bool {
	var me *MalformedDocumentError
	return errors.As(err, &me)
}

func malformed(path, format string, args ...any) *MalformedDocumentError {
	return &MalformedDocumentError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
