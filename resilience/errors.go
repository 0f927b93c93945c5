package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// before the operation is attempted.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrNotRetryable is returned by Controller.Retry when CanRetry is
	// false.
	ErrNotRetryable = errors.New("resilience: operation not retryable")

	// ErrRetryInFlight is returned when a retry is requested while a
	// previous attempt is still running.
	ErrRetryInFlight = errors.New("resilience: retry already in flight")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrThrottled is returned when the throttle refuses an operation.
	ErrThrottled = errors.New("resilience: throughput limit exceeded")

	// ErrTimeout is returned when an operation exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// RateLimitError is returned when the sliding-window rate limiter rejects
// a call before the operation is attempted. It carries the time until a
// window slot frees up so callers can schedule a later re-invocation.
type RateLimitError struct {
	TimeUntilReset time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.TimeUntilReset > 0 {
		return fmt.Sprintf("resilience: rate limit exceeded, next slot in %s", e.TimeUntilReset)
	}
	return "resilience: rate limit exceeded"
}

// IsRejection reports whether err is a gate rejection, meaning the
// wrapped operation was never attempted. Callers use this to suppress
// "retry" affordances that would be pointless while a gate is refusing
// work.
func IsRejection(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return true
	}
	var rle *RateLimitError
	return errors.As(err, &rle)
}
