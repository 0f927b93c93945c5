package profile

import (
	"time"

	"github.com/oakmount/ward/resilience"
)

// Policy converts retry settings into a resilience.Policy. Returns the
// zero Policy when the retry section is absent, which the engine fills
// with its defaults.
func (p Profile) Policy() resilience.Policy {
	if p.Retry == nil {
		return resilience.Policy{}
	}
	return resilience.Policy{
		MaxAttempts: p.Retry.MaxAttempts,
		BaseDelay:   p.Retry.BaseDelay,
		MaxDelay:    p.Retry.MaxDelay,
		Multiplier:  p.Retry.Multiplier,
		Jitter:      p.Retry.Jitter,
	}
}

// Components holds the resilience components built from one profile.
// Absent profile sections leave the corresponding field nil.
type Components struct {
	Retry    *resilience.Retry
	Breaker  *resilience.CircuitBreaker
	Limiter  *resilience.RateLimiter
	Bulkhead *resilience.Bulkhead
	Throttle *resilience.Throttle
}

// BuildOption customizes component construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	onRetry       func(attempt int, err error, delay time.Duration)
	onStateChange func(from, to resilience.State)
	retryIf       func(error) bool
}

// WithStateChangeHook registers a circuit breaker transition hook on the
// built breaker.
func WithStateChangeHook(fn func(from, to resilience.State)) BuildOption {
	return func(c *buildConfig) {
		c.onStateChange = fn
	}
}

// WithRetryHook registers an observation hook invoked before each
// retry's backoff delay.
func WithRetryHook(fn func(attempt int, err error, delay time.Duration)) BuildOption {
	return func(c *buildConfig) {
		c.onRetry = fn
	}
}

// WithRetryPredicate overrides the default retryability classification
// on the built retry engine.
func WithRetryPredicate(fn func(error) bool) BuildOption {
	return func(c *buildConfig) {
		c.retryIf = fn
	}
}

// Build constructs the resilience components a profile declares. The
// breaker and limiter are wired into the retry engine so they gate every
// attempt, matching how the components compose by hand.
func (p Profile) Build(opts ...BuildOption) Components {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var c Components

	if p.Circuit != nil {
		c.Breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: p.Circuit.FailureThreshold,
			RecoveryTimeout:  p.Circuit.RecoveryTimeout,
			OnStateChange:    cfg.onStateChange,
		})
	}

	if p.RateLimit != nil {
		c.Limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			MaxRequests: p.RateLimit.MaxRequests,
			Window:      p.RateLimit.Window,
		})
	}

	if p.Bulkhead != nil {
		c.Bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: p.Bulkhead.MaxConcurrent,
			MaxWait:       p.Bulkhead.MaxWait,
		})
	}

	if p.Throttle != nil {
		c.Throttle = resilience.NewThrottle(resilience.ThrottleConfig{
			Rate:        p.Throttle.Rate,
			Burst:       p.Throttle.Burst,
			WaitOnLimit: p.Throttle.WaitOnLimit,
			MaxWait:     p.Throttle.MaxWait,
		})
	}

	if p.Retry != nil {
		policy := p.Policy()
		policy.RetryIf = cfg.retryIf
		c.Retry = resilience.NewRetry(resilience.RetryConfig{
			Policy:  policy,
			Breaker: c.Breaker,
			Limiter: c.Limiter,
			OnRetry: cfg.onRetry,
		})
	}

	return c
}

// Executor builds a ready-to-use resilience.Executor from the profile.
// When a retry section is present the breaker and limiter gate each
// attempt inside the retry loop; otherwise they wrap the whole call.
func (p Profile) Executor(opts ...BuildOption) *resilience.Executor {
	c := p.Build(opts...)

	var execOpts []resilience.ExecutorOption

	if p.Timeout > 0 {
		execOpts = append(execOpts, resilience.WithTimeout(p.Timeout))
	}
	if c.Retry != nil {
		execOpts = append(execOpts, resilience.WithRetry(c.Retry))
	} else {
		if c.Breaker != nil {
			execOpts = append(execOpts, resilience.WithCircuitBreaker(c.Breaker))
		}
		if c.Limiter != nil {
			execOpts = append(execOpts, resilience.WithRateLimiter(c.Limiter))
		}
	}
	if c.Bulkhead != nil {
		execOpts = append(execOpts, resilience.WithBulkhead(c.Bulkhead))
	}
	if c.Throttle != nil {
		execOpts = append(execOpts, resilience.WithThrottle(c.Throttle))
	}

	return resilience.NewExecutor(execOpts...)
}
