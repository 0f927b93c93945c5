package health

import (
	"context"
	"fmt"
	"time"

	"github.com/oakmount/ward/resilience"
)

// BreakerChecker reports the health of a circuit breaker. A closed
// breaker is healthy, a half-open breaker is degraded while its probe
// is outstanding, and an open breaker is unhealthy.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker observing the given breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports the breaker state with failure details.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	snap := c.breaker.Snapshot()

	details := map[string]any{
		"state":                snap.State.String(),
		"consecutive_failures": snap.ConsecutiveFailures,
	}
	if !snap.LastFailureTime.IsZero() {
		details["last_failure"] = snap.LastFailureTime.UTC().Format(time.RFC3339)
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open", resilience.ErrCircuitOpen, details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing", details)
	default:
		return Healthy("circuit closed", details)
	}
}

// LimiterCheckerConfig configures a LimiterChecker.
type LimiterCheckerConfig struct {
	// DegradedRatio is the in-flight fraction of the window capacity at
	// which the limiter is reported degraded.
	// Default: 0.9
	DegradedRatio float64
}

// LimiterChecker reports the health of a sliding-window rate limiter.
// A saturated window means calls are being refused, which is reported
// as degraded rather than unhealthy since the window drains on its own.
type LimiterChecker struct {
	name    string
	limiter *resilience.RateLimiter
	ratio   float64
}

// NewLimiterChecker creates a checker observing the given limiter.
func NewLimiterChecker(name string, limiter *resilience.RateLimiter, config ...LimiterCheckerConfig) *LimiterChecker {
	ratio := 0.9
	if len(config) > 0 && config[0].DegradedRatio > 0 {
		ratio = config[0].DegradedRatio
	}

	return &LimiterChecker{name: name, limiter: limiter, ratio: ratio}
}

// Name returns the name of this checker.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check reports limiter saturation.
func (c *LimiterChecker) Check(ctx context.Context) Result {
	inFlight := c.limiter.InFlight()
	capacity := c.limiter.Capacity()
	status := c.limiter.Status()

	details := map[string]any{
		"in_flight": inFlight,
		"capacity":  capacity,
	}
	if status.TimeUntilReset > 0 {
		details["time_until_reset"] = status.TimeUntilReset.String()
	}

	if !status.Allowed {
		return Degraded("rate limit window saturated", details)
	}
	if capacity > 0 && float64(inFlight) >= c.ratio*float64(capacity) {
		return Degraded(fmt.Sprintf("rate limit window at %d/%d", inFlight, capacity), details)
	}
	return Healthy("rate limit window open", details)
}

// BulkheadChecker reports the health of a concurrency bulkhead. A full
// bulkhead is degraded: callers are waiting or being turned away but
// admitted work still completes.
type BulkheadChecker struct {
	name     string
	bulkhead *resilience.Bulkhead
}

// NewBulkheadChecker creates a checker observing the given bulkhead.
func NewBulkheadChecker(name string, bulkhead *resilience.Bulkhead) *BulkheadChecker {
	return &BulkheadChecker{name: name, bulkhead: bulkhead}
}

// Name returns the name of this checker.
func (c *BulkheadChecker) Name() string {
	return c.name
}

// Check reports bulkhead occupancy.
func (c *BulkheadChecker) Check(ctx context.Context) Result {
	m := c.bulkhead.Metrics()

	details := map[string]any{
		"active":         m.Active,
		"max_concurrent": m.MaxConcurrent,
		"rejected":       m.Rejected,
	}

	if m.Active >= m.MaxConcurrent {
		return Degraded("bulkhead full", details)
	}
	return Healthy("bulkhead has capacity", details)
}
