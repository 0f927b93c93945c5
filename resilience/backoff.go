package resilience

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/oakmount/ward/failure"
)

// Policy is the immutable retry policy shared by the retry engine and the
// manual retry controller.
type Policy struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries. Must be >= BaseDelay;
	// a smaller value is raised to BaseDelay.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter randomizes each delay by a uniform factor in [0.5, 1.0] to
	// avoid synchronized retry storms across callers.
	Jitter bool

	// RetryIf decides whether a failure should trigger a retry. When set
	// it takes precedence over the default classification.
	// Default: failure.Retryable.
	RetryIf func(err error) bool
}

// withDefaults returns a copy of the policy with defaults applied.
func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Multiplier <= 1 {
		p.Multiplier = 2.0
	}
	if p.RetryIf == nil {
		p.RetryIf = failure.Retryable
	}
	return p
}

// Delay returns the backoff delay before the retry following the given
// attempt (1-based). The delay grows as
// BaseDelay × Multiplier^(attempt−1), capped at MaxDelay. With Jitter
// enabled the result is scaled by a uniform random factor in [0.5, 1.0]
// and floored to whole milliseconds. The result is always in
// [0, MaxDelay].
func (p Policy) Delay(attempt int) time.Duration {
	p = p.withDefaults()

	if attempt < 1 {
		attempt = 1
	}

	factor := math.Pow(p.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(p.BaseDelay) * factor)

	// Guard against overflow for large attempt counts.
	if delay <= 0 || delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()/2))
		delay = delay.Truncate(time.Millisecond)
	}

	return delay
}
