package failure

import (
	"context"
	"errors"
	"net"
	"time"
)

// Category groups failures for classification purposes.
type Category int

const (
	// CategoryUnknown is the category for failures the classifier cannot
	// place. Unknown failures are not retried.
	CategoryUnknown Category = iota
	// CategoryNetwork covers connectivity loss.
	CategoryNetwork
	// CategoryTimeout covers deadlines and timeouts.
	CategoryTimeout
	// CategoryServer covers server-side faults (5xx-equivalent).
	CategoryServer
	// CategoryRateLimit covers explicit rate-limit rejections.
	CategoryRateLimit
	// CategoryAuth covers authentication and authorization failures.
	CategoryAuth
	// CategoryBadRequest covers malformed-request failures.
	CategoryBadRequest
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryTimeout:
		return "timeout"
	case CategoryServer:
		return "server"
	case CategoryRateLimit:
		return "rate_limit"
	case CategoryAuth:
		return "auth"
	case CategoryBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Classification is the projection the retry engine consumes.
type Classification struct {
	// Retryable reports whether the failure is worth reattempting.
	Retryable bool

	// Category is the failure group the decision was based on.
	Category Category

	// WaitHint is an explicit server-provided delay that overrides the
	// computed backoff for the next attempt, 0 if absent.
	WaitHint time.Duration
}

// categoryRetryable is the default retry policy per category.
// Auth and malformed-request failures are permanent; transient transport
// and server-side failures are retried.
var categoryRetryable = map[Category]bool{
	CategoryNetwork:    true,
	CategoryTimeout:    true,
	CategoryServer:     true,
	CategoryRateLimit:  true,
	CategoryAuth:       false,
	CategoryBadRequest: false,
	CategoryUnknown:    false,
}

// Classify maps an arbitrary failure onto a Classification. It is total:
// any non-nil error yields a decision. A nil error classifies as
// non-retryable with CategoryUnknown.
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}

	cat := Categorize(err)
	cls := Classification{
		Retryable: categoryRetryable[cat],
		Category:  cat,
	}

	var fe *Error
	if errors.As(err, &fe) && fe.RetryAfter > 0 {
		cls.WaitHint = fe.RetryAfter
	}

	return cls
}

// Categorize determines the failure category of an error.
func Categorize(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var fe *Error
	if errors.As(err, &fe) {
		return categorizeError(fe)
	}

	// Context deadline counts as a timeout; cancellation is terminal and
	// not worth reattempting.
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CategoryUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}

	return CategoryUnknown
}

func categorizeError(e *Error) Category {
	switch e.Code {
	case CodeNetwork:
		return CategoryNetwork
	case CodeTimeout:
		return CategoryTimeout
	case CodeServer:
		return CategoryServer
	case CodeRateLimited:
		return CategoryRateLimit
	case CodeUnauthorized, CodeForbidden:
		return CategoryAuth
	case CodeBadRequest, CodeNotFound, CodeConflict:
		return CategoryBadRequest
	}

	// Fall back to the status code when the code string is unknown.
	if e.Status != 0 {
		return categoryForStatus(e.Status)
	}

	// An unknown code wrapping a recognizable cause defers to the cause.
	if e.Cause != nil {
		return Categorize(e.Cause)
	}

	return CategoryUnknown
}

func categoryForStatus(status int) Category {
	switch {
	case status == 401 || status == 403:
		return CategoryAuth
	case status == 408:
		return CategoryTimeout
	case status == 429:
		return CategoryRateLimit
	case status >= 500:
		return CategoryServer
	case status >= 400:
		return CategoryBadRequest
	default:
		return CategoryUnknown
	}
}

// Retryable reports whether the error is retryable under the default
// policy. It is shorthand for Classify(err).Retryable.
func Retryable(err error) bool {
	return Classify(err).Retryable
}
