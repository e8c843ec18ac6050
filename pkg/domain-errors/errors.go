// Package domainerrors provides coded errors for recoverable-by-caller
// outcomes. Services translate infrastructure sentinels into these; callers
// (handlers, other services) branch on the code rather than on error text.
//
// Storage faults and other unexpected conditions use CodeInternal and are
// treated as unrecoverable by the transport layer.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error outcome.
type Code string

const (
	// CodeValidation marks malformed input, rejected before touching storage.
	CodeValidation Code = "VALIDATION"
	// CodeForbidden marks an authorization failure. Messages must not reveal
	// whether the target resource exists.
	CodeForbidden Code = "FORBIDDEN"
	// CodeNotFound marks an absent or soft-deleted resource.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict marks an optimistic-concurrency loss. The error carries
	// the current version under DetailCurrentVersion so the caller can
	// re-fetch and decide whether to retry.
	CodeConflict Code = "CONFLICT"
	// CodeTerminalStatus marks a mutation against a case whose status admits
	// no further transitions.
	CodeTerminalStatus Code = "TERMINAL_STATUS"
	// CodeInvalidTransition marks a status change outside the legal lifecycle.
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	// CodeReasonRequired marks a transition into a reason-required status
	// without a reason.
	CodeReasonRequired Code = "REASON_REQUIRED"
	// CodeInternal marks unexpected faults (storage errors and the like).
	CodeInternal Code = "INTERNAL"
)

// DetailCurrentVersion is the Details key carrying the stored version on a
// CONFLICT error.
const DetailCurrentVersion = "current_version"

// Error is a coded domain error with optional structured details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches a structured detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error preserving the underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// DetailOf extracts a structured detail from err, if present.
func DetailOf(err error, key string) (any, bool) {
	var domainErr *Error
	if !errors.As(err, &domainErr) || domainErr.Details == nil {
		return nil, false
	}
	value, ok := domainErr.Details[key]
	return value, ok
}
