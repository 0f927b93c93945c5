package resilience

import (
	"context"
	"time"

	"github.com/oakmount/ward/failure"
)

// RetryConfig configures the retry engine.
type RetryConfig struct {
	// Policy is the retry policy; zero fields get defaults.
	Policy Policy

	// Breaker, when set, is consulted before every attempt and notified
	// of every attempt outcome. A rejection is returned as ErrCircuitOpen
	// without invoking the operation.
	Breaker *CircuitBreaker

	// Limiter, when set, gates attempt volume. A rejection is returned as
	// *RateLimitError without invoking the operation.
	Limiter *RateLimiter

	// OnRetry is called after a retryable failure, strictly before the
	// delay, with the 1-based attempt number that just failed.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// AttemptRecord describes one attempt of a single Execute invocation.
// Records are immutable once made and live only for the call's lifetime.
type AttemptRecord struct {
	// Attempt is the 1-based attempt number.
	Attempt int

	// Err is the attempt's failure, nil on success.
	Err error

	// Delay is the backoff scheduled after this attempt, 0 when no
	// further attempt follows.
	Delay time.Duration

	// Time is when the attempt completed.
	Time time.Time
}

// Retry orchestrates repeated attempts of a caller-supplied operation.
// Attempts within one Execute call are strictly sequential; the only
// suspension point is the cancellable backoff delay between attempts.
type Retry struct {
	config RetryConfig
	policy Policy
}

// NewRetry creates a new retry engine.
func NewRetry(config RetryConfig) *Retry {
	return &Retry{
		config: config,
		policy: config.Policy.withDefaults(),
	}
}

// Policy returns the effective policy with defaults applied.
func (r *Retry) Policy() Policy {
	return r.policy
}

// Execute runs the operation until success, exhaustion, or a
// non-retryable failure. Exactly one failure value is returned per call:
// the last failure encountered, or a typed gate rejection when the
// limiter or breaker refused the attempt.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := r.run(ctx, op, false)
	return err
}

// ExecuteRecorded is Execute with the invocation's attempt history.
// Gate rejections produce no record since no attempt was made.
func (r *Retry) ExecuteRecorded(ctx context.Context, op func(context.Context) error) ([]AttemptRecord, error) {
	return r.run(ctx, op, true)
}

func (r *Retry) run(ctx context.Context, op func(context.Context) error, record bool) ([]AttemptRecord, error) {
	var history []AttemptRecord

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		// Gate checks are synchronous and non-blocking; a rejection is
		// terminal for this invocation.
		if r.config.Limiter != nil && !r.config.Limiter.TryAcquire() {
			return history, &RateLimitError{
				TimeUntilReset: r.config.Limiter.TimeUntilNextSlot(),
			}
		}
		if r.config.Breaker != nil {
			if err := r.config.Breaker.Allow(); err != nil {
				return history, err
			}
		}

		err := op(ctx)

		if r.config.Breaker != nil {
			r.config.Breaker.Record(err)
		}

		if err == nil {
			if record {
				history = append(history, AttemptRecord{Attempt: attempt, Time: time.Now()})
			}
			return history, nil
		}

		if !r.policy.RetryIf(err) || attempt == r.policy.MaxAttempts {
			if record {
				history = append(history, AttemptRecord{Attempt: attempt, Err: err, Time: time.Now()})
			}
			return history, err
		}

		delay := r.policy.Delay(attempt)
		// A server-provided wait hint overrides the computed delay for
		// this attempt only.
		if hint := failure.Classify(err).WaitHint; hint > 0 {
			delay = hint
		}

		if record {
			history = append(history, AttemptRecord{Attempt: attempt, Err: err, Delay: delay, Time: time.Now()})
		}

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		if err := sleep(ctx, delay); err != nil {
			return history, err
		}
	}

	// Unreachable: the loop always returns.
	return history, nil
}

// sleep waits for d or until the context is cancelled, whichever comes
// first, without leaking the timer.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs a value-producing operation through the retry engine. On a
// terminal failure the zero value of T is returned alongside the error.
func Do[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
