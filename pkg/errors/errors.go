// Package errors provides the typed error taxonomy for stayscout.
//
// Every error surfaced by the acquisition layer is an *Error carrying a
// machine-readable [Code], the operation that failed and, when available,
// the offending listing id or search location. This lets callers decide
// whether to retry, adjust parameters, or give up without string matching.
//
// # Error Codes
//
//   - AUTH_ERROR: credential fetch or refresh failed
//   - RATE_LIMITED: upstream explicitly throttled the request
//   - NOT_FOUND: the resource does not exist (never retried)
//   - PARSE_ERROR: no extraction tier matched, or the response shape was unrecognized
//   - TRANSPORT_ERROR: network failure, timeout, or 5xx (retried by the document source)
//   - VALIDATION_ERROR: caller parameters rejected before any network activity
//   - UNSUPPORTED: the source has no implementation for the operation
//
// # Usage
//
//	err := errors.NotFound("detail", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing listing
//	}
//
//	// Wrap transport failures
//	err := errors.Transport("search", location, origErr)
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the acquisition layer.
const (
	ErrCodeAuth        Code = "AUTH_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeParse       Code = "PARSE_ERROR"
	ErrCodeTransport   Code = "TRANSPORT_ERROR"
	ErrCodeValidation  Code = "VALIDATION_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, the failing operation and an optional cause.
type Error struct {
	Code       Code          // Machine-readable error code
	Op         string        // Operation name (search, detail, reviews, ...)
	ID         string        // Listing id or search location, if known
	Message    string        // Human-readable message
	Cause      error         // Underlying error (optional)
	RetryAfter time.Duration // Upstream back-off hint for RATE_LIMITED
}

// Error implements the error interface.
// The format is "CODE: op \"id\": message: cause".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.describe())
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) describe() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.ID != "" {
			fmt.Fprintf(&b, " %q", e.ID)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Auth reports a failed credential fetch or refresh.
func Auth(op string, cause error) *Error {
	return &Error{Code: ErrCodeAuth, Op: op, Message: "credential unavailable", Cause: cause}
}

// RateLimited reports an explicit upstream throttle. retryAfter may be zero.
func RateLimited(op, id string, retryAfter time.Duration) *Error {
	msg := "throttled by upstream"
	if retryAfter > 0 {
		msg = fmt.Sprintf("throttled by upstream, retry after %s", retryAfter)
	}
	return &Error{Code: ErrCodeRateLimited, Op: op, ID: id, Message: msg, RetryAfter: retryAfter}
}

// NotFound reports that the requested resource does not exist.
func NotFound(op, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Op: op, ID: id, Message: "resource not found"}
}

// Parse reports an unrecognized payload.
func Parse(op, id, format string, args ...any) *Error {
	return &Error{Code: ErrCodeParse, Op: op, ID: id, Message: fmt.Sprintf(format, args...)}
}

// Transport reports a network-level failure.
func Transport(op, id string, cause error) *Error {
	return &Error{Code: ErrCodeTransport, Op: op, ID: id, Message: "request failed", Cause: cause}
}

// Validation reports malformed caller parameters.
func Validation(op, format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Unsupported reports that a source has no implementation for op.
func Unsupported(op string) *Error {
	return &Error{Code: ErrCodeUnsupported, Op: op, Message: "operation not supported by this source"}
}

// At returns err annotated with op and id when err is an *Error that does not
// name them yet. Other errors are returned unchanged.
func At(err error, op, id string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Op != "" && (e.ID != "" || id == "") {
		return err
	}
	c := *e
	if c.Op == "" {
		c.Op = op
	}
	if c.ID == "" {
		c.ID = id
	}
	return &c
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether err is a transport failure worth another attempt.
func IsRetryable(err error) bool {
	return Is(err, ErrCodeTransport)
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the operation, id and message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.describe()
	}
	return err.Error()
}
