// Package resilience wraps outbound calls to a remote service so that
// transient failures are absorbed automatically, cascading failures are
// contained, and request volume is bounded.
//
// # Components
//
//   - Retry: drives repeated attempts of a caller-supplied operation with
//     exponential backoff and jitter, consulting the failure classifier
//     for retryability and honoring server-provided wait hints.
//
//   - CircuitBreaker: a Closed/Open/HalfOpen state machine that stops
//     attempting calls to a failing dependency for a cooldown period and
//     recovers through a single trial probe.
//
//   - RateLimiter: a sliding-window counter that caps outbound attempt
//     volume independent of success or failure.
//
//   - Controller: a stateful wrapper for user-paced retries. It exposes
//     attempt count, last error, and an explicit "retry now" action, and
//     never sleeps itself.
//
//   - Bulkhead, Throttle, Timeout: supporting patterns capping
//     concurrency, smoothing request rate, and bounding call duration.
//
// # Usage
//
// Components are standalone and independently instantiable, typically one
// breaker plus one limiter per remote endpoint group:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  30 * time.Second,
//	})
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    MaxRequests: 100,
//	    Window:      time.Minute,
//	})
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    Policy:  resilience.Policy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond},
//	    Breaker: cb,
//	    Limiter: rl,
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return fetchRecords(ctx)
//	})
//
// The retry loop checks the limiter and breaker before every attempt; a
// rejection is returned as a typed, terminal error (ErrCircuitOpen or
// *RateLimitError) distinguishable from the operation's own failures.
//
// An Executor composes the patterns for callers that prefer a single
// wrapped entry point; see NewExecutor.
package resilience
