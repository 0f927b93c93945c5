package failure

import (
	"fmt"
	"net/http"
	"time"
)

// Common error codes reported by remote operations. Codes are free-form
// strings; these cover the categories the classifier understands.
const (
	CodeNetwork      = "network"
	CodeTimeout      = "timeout"
	CodeServer       = "server_error"
	CodeRateLimited  = "rate_limited"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeBadRequest   = "bad_request"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUnknown      = "unknown"
)

// Error is the failure shape produced by a wrapped remote operation.
//
// All fields except Code are optional: Status is 0 when the failure did
// not originate from an HTTP-like transport, RetryAfter is 0 when the
// server gave no explicit wait hint, and Cause is nil when there is no
// underlying error to unwrap.
type Error struct {
	// Code identifies the failure category (see Code* constants).
	Code string

	// Status is the HTTP-like status code, 0 if not applicable.
	Status int

	// RetryAfter is a server-provided wait hint, 0 if absent.
	RetryAfter time.Duration

	// Message is a human-readable description.
	Message string

	// Details carries optional structured context.
	Details map[string]any

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	default:
		return e.Code
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error with the given code wrapping an underlying error.
func Wrap(code string, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// FromStatus creates an Error from an HTTP-like status code, mapping the
// status onto the matching error code.
func FromStatus(status int, message string) *Error {
	return &Error{
		Code:    codeForStatus(status),
		Status:  status,
		Message: message,
	}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeForbidden
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusRequestTimeout:
		return CodeTimeout
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= 500:
		return CodeServer
	case status >= 400:
		return CodeBadRequest
	default:
		return CodeUnknown
	}
}

// WithRetryAfter returns a copy of the error carrying the wait hint.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	clone := *e
	clone.RetryAfter = d
	return &clone
}

// WithDetail returns a copy of the error with the detail attached.
func (e *Error) WithDetail(key string, value any) *Error {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}
