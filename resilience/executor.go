package resilience

import (
	"context"
	"time"
)

// Executor composes multiple resilience patterns around a single entry
// point. For per-attempt gate checks, wire the breaker and limiter into
// RetryConfig instead; the Executor wraps each pattern around the whole
// call.
type Executor struct {
	rateLimiter *RateLimiter
	throttle    *Throttle
	bulkhead    *Bulkhead
	breaker     *CircuitBreaker
	retry       *Retry
	timeout     *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter adds sliding-window volume gating to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithThrottle adds token-bucket rate shaping to the executor.
func WithThrottle(t *Throttle) ExecutorOption {
	return func(e *Executor) {
		e.throttle = t
	}
}

// WithBulkhead adds a concurrency cap to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout adds a per-call deadline to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the operation through all configured patterns.
//
// The wrapping order, outermost first:
//  1. Rate limiter: caps call volume before anything runs.
//  2. Throttle: shapes sustained rate.
//  3. Bulkhead: caps concurrency.
//  4. Circuit breaker: refuses work while the dependency is failing.
//  5. Retry: reattempts transient failures.
//  6. Timeout: bounds each attempt's duration.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.breaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.breaker.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.throttle != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.throttle.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			if !e.rateLimiter.TryAcquire() {
				return &RateLimitError{TimeUntilReset: e.rateLimiter.TimeUntilNextSlot()}
			}
			return inner(ctx)
		}
	}

	return execute(ctx)
}
