// Package errors carries machine-readable error codes across the CLI
// and the HTTP API.
//
// A code classifies an error without parsing its message: the API maps
// codes to HTTP statuses and returns them in response bodies, and the
// CLI uses them to pick exit behavior. Codes group by prefix or suffix:
// INVALID_* for rejected input, *_NOT_FOUND for missing resources,
// CYCLE and MAX_DEPTH for flattening failures.
//
// Constructing and classifying:
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "graph %q has no nodes", name)
//	err = errors.Wrap(errors.ErrCodeStore, cause, "load graph %s", name)
//
//	if errors.Is(err, errors.ErrCodeStore) { ... }
//	status := statusFor(errors.GetCode(err))
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error class.
type Code string

const (
	// Rejected input
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	// Missing resources
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Flattening failures
	ErrCodeCycle    Code = "CYCLE"
	ErrCodeMaxDepth Code = "MAX_DEPTH"

	// Backend failures
	ErrCodeStore Code = "STORE_ERROR"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a human-readable message and an optional
// wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a coded error around cause. The cause stays reachable
// through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first coded error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or ""
// when the chain has none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for coded
// errors, and err.Error() for everything else. API responses and CLI
// output use it so users see prose, not codes.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
