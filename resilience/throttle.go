package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig configures the token-bucket throttle.
type ThrottleConfig struct {
	// Rate is the sustained number of operations allowed per second.
	// Default: 100
	Rate float64

	// Burst is the maximum burst size.
	// Default: 10
	Burst int

	// WaitOnLimit waits for a token instead of failing immediately.
	// Default: false
	WaitOnLimit bool

	// MaxWait caps how long to wait for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// Throttle smooths sustained request rate with a token bucket. Unlike the
// sliding-window RateLimiter, which enforces a hard per-window cap, the
// throttle shapes steady throughput and tolerates short bursts.
type Throttle struct {
	config  ThrottleConfig
	limiter *rate.Limiter
}

// NewThrottle creates a new throttle.
func NewThrottle(config ThrottleConfig) *Throttle {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &Throttle{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Allow reports whether an operation may proceed right now, consuming a
// token when it may.
func (t *Throttle) Allow() bool {
	return t.limiter.Allow()
}

// Wait blocks until a token is available, the context is cancelled, or
// MaxWait elapses. ErrThrottled is returned when no token arrived in
// time.
func (t *Throttle) Wait(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, t.config.MaxWait)
	defer cancel()

	if err := t.limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrThrottled
	}
	return nil
}

// Execute runs the operation if the throttle admits it.
func (t *Throttle) Execute(ctx context.Context, op func(context.Context) error) error {
	if t.config.WaitOnLimit {
		if err := t.Wait(ctx); err != nil {
			return err
		}
	} else if !t.Allow() {
		return ErrThrottled
	}

	return op(ctx)
}

// Tokens returns the number of tokens currently available.
func (t *Throttle) Tokens() float64 {
	return t.limiter.Tokens()
}
