package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig configures the sliding-window rate limiter.
type RateLimiterConfig struct {
	// MaxRequests is the number of attempts admitted per window.
	// Default: 100
	MaxRequests int

	// Window is the sliding window duration.
	// Default: 1 minute
	Window time.Duration
}

// LimiterStatus is a point-in-time view of the limiter.
type LimiterStatus struct {
	// Allowed reports whether the next TryAcquire would admit.
	Allowed bool

	// TimeUntilReset is how long until a window slot frees up, 0 when
	// currently admitting.
	TimeUntilReset time.Duration
}

// RateLimiter caps outbound attempt volume with a sliding window of
// attempt timestamps. It gates volume only and has no notion of success
// or failure; callers that are rejected must re-check later themselves.
type RateLimiter struct {
	config RateLimiterConfig

	mu     sync.Mutex
	stamps []time.Time
	now    func() time.Time
}

// NewRateLimiter creates a new sliding-window rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.MaxRequests <= 0 {
		config.MaxRequests = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{
		config: config,
		stamps: make([]time.Time, 0, config.MaxRequests),
		now:    time.Now,
	}
}

// TryAcquire admits the call and records its timestamp iff the window
// holds fewer than MaxRequests entries after pruning expired timestamps.
// It returns false without recording otherwise.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	if len(rl.stamps) >= rl.config.MaxRequests {
		return false
	}

	rl.stamps = append(rl.stamps, now)
	return true
}

// TimeUntilNextSlot returns 0 if a call would currently be admitted,
// otherwise how long until the oldest window entry expires.
func (rl *RateLimiter) TimeUntilNextSlot() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	if len(rl.stamps) < rl.config.MaxRequests {
		return 0
	}

	return rl.config.Window - now.Sub(rl.stamps[0])
}

// Status returns a snapshot of the limiter state.
func (rl *RateLimiter) Status() LimiterStatus {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	if len(rl.stamps) < rl.config.MaxRequests {
		return LimiterStatus{Allowed: true}
	}

	return LimiterStatus{
		TimeUntilReset: rl.config.Window - now.Sub(rl.stamps[0]),
	}
}

// InFlight returns the number of unexpired entries in the window.
func (rl *RateLimiter) InFlight() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.pruneLocked(rl.now())
	return len(rl.stamps)
}

// Capacity returns the configured window capacity.
func (rl *RateLimiter) Capacity() int {
	return rl.config.MaxRequests
}

// Reset clears the window unconditionally.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.stamps = rl.stamps[:0]
}

// pruneLocked drops timestamps older than now minus the window.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.config.Window)

	i := 0
	for i < len(rl.stamps) && !rl.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.stamps = append(rl.stamps[:0], rl.stamps[i:]...)
	}
}
