package resilience

import (
	"context"
	"sync"
	"time"
)

// RetryState is an externally observable snapshot of a Controller.
type RetryState struct {
	// Attempt is the number of physical attempts made so far.
	Attempt int

	// LastError is the most recent attempt's failure, nil after success
	// or reset.
	LastError error

	// NextRetryAt is when a caller-paced retry is due, for display only.
	// Zero when no retry is pending.
	NextRetryAt time.Time

	// IsRetrying reports whether an attempt is currently in flight.
	IsRetrying bool
}

// Controller wraps retry execution with externally observable state for
// interactive callers that show progress and let a human trigger the
// next attempt. Each Execute makes exactly one physical attempt; the
// controller never sleeps. Waiting, if any, is a caller concern driven
// by NextRetryAt: manual retries are user-paced, unlike the engine's
// automatic path.
type Controller struct {
	policy Policy

	mu    sync.Mutex
	state RetryState
	now   func() time.Time
}

// NewController creates a controller for one logical user-facing action.
func NewController(policy Policy) *Controller {
	return &Controller{
		policy: policy.withDefaults(),
		now:    time.Now,
	}
}

// Execute makes one physical attempt of the operation, tracking attempt
// count and last error. On failure it computes NextRetryAt from the
// backoff policy for the attempt just made; it does not itself wait.
// ErrRetryInFlight is returned when another attempt is still running.
func (c *Controller) Execute(ctx context.Context, op func(context.Context) error) error {
	return c.run(ctx, op, false)
}

// Retry makes the next attempt. It fails with ErrNotRetryable when
// CanRetry is false.
func (c *Controller) Retry(ctx context.Context, op func(context.Context) error) error {
	return c.run(ctx, op, true)
}

func (c *Controller) run(ctx context.Context, op func(context.Context) error, explicit bool) error {
	c.mu.Lock()
	if explicit && !c.canRetryLocked() {
		c.mu.Unlock()
		return ErrNotRetryable
	}
	if c.state.IsRetrying {
		c.mu.Unlock()
		return ErrRetryInFlight
	}
	c.state.Attempt++
	attempt := c.state.Attempt
	c.state.IsRetrying = true
	c.mu.Unlock()

	err := op(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.IsRetrying = false
	if err != nil {
		c.state.LastError = err
		c.state.NextRetryAt = c.now().Add(c.policy.Delay(attempt))
		return err
	}

	c.state.LastError = nil
	c.state.NextRetryAt = time.Time{}
	return nil
}

// CanRetry reports whether an explicit retry may be requested: attempts
// remain, the last failure was classified retryable, and no attempt is
// currently in flight.
func (c *Controller) CanRetry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canRetryLocked()
}

func (c *Controller) canRetryLocked() bool {
	if c.state.IsRetrying {
		return false
	}
	if c.state.Attempt >= c.policy.MaxAttempts {
		return false
	}
	if c.state.LastError == nil {
		return false
	}
	return c.policy.RetryIf(c.state.LastError)
}

// State returns a snapshot of the controller state.
func (c *Controller) State() RetryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset zeroes all state. Idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = RetryState{}
}
