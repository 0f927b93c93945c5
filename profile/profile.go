package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the top-level profile file: named resilience profiles, one per
// protected dependency.
type File struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile declares the resilience settings for one dependency. Absent
// sections leave the corresponding pattern out entirely.
type Profile struct {
	Retry     *RetrySettings     `yaml:"retry"`
	Circuit   *CircuitSettings   `yaml:"circuit"`
	RateLimit *RateLimitSettings `yaml:"rate_limit"`
	Bulkhead  *BulkheadSettings  `yaml:"bulkhead"`
	Throttle  *ThrottleSettings  `yaml:"throttle"`
	Timeout   time.Duration      `yaml:"timeout"`
}

// RetrySettings configures the retry engine. Zero values take the engine
// defaults.
type RetrySettings struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Multiplier  float64       `yaml:"multiplier"`
	Jitter      bool          `yaml:"jitter"`
}

// CircuitSettings configures the circuit breaker.
type CircuitSettings struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`
}

// RateLimitSettings configures the sliding-window rate limiter.
type RateLimitSettings struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// BulkheadSettings configures the concurrency bulkhead.
type BulkheadSettings struct {
	MaxConcurrent int           `yaml:"max_concurrent"`
	MaxWait       time.Duration `yaml:"max_wait"`
}

// ThrottleSettings configures the token-bucket throttle.
type ThrottleSettings struct {
	Rate        float64       `yaml:"rate"`
	Burst       int           `yaml:"burst"`
	WaitOnLimit bool          `yaml:"wait_on_limit"`
	MaxWait     time.Duration `yaml:"max_wait"`
}

// Load reads and parses a YAML profile file, applies strict environment
// variable substitution, and validates the result.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses profiles from raw YAML bytes.
func LoadFromBytes(data []byte) (*File, error) {
	expanded, err := expandEnvStrict(string(data))
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Get returns the named profile.
func (f *File) Get(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}

// Names returns the declared profile names in unspecified order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	return names
}

// Validate checks every profile for nonsensical settings. Zero values
// are always valid since the components fill in their own defaults.
func (f *File) Validate() error {
	if len(f.Profiles) == 0 {
		return ErrNoProfiles
	}

	for name, p := range f.Profiles {
		if err := p.validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return nil
}

func (p Profile) validate() error {
	if p.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", p.Timeout)
	}

	if r := p.Retry; r != nil {
		if r.MaxAttempts < 0 {
			return fmt.Errorf("retry.max_attempts must not be negative, got %d", r.MaxAttempts)
		}
		if r.BaseDelay < 0 {
			return fmt.Errorf("retry.base_delay must not be negative, got %s", r.BaseDelay)
		}
		if r.MaxDelay > 0 && r.MaxDelay < r.BaseDelay {
			return fmt.Errorf("retry.max_delay %s is below retry.base_delay %s", r.MaxDelay, r.BaseDelay)
		}
		if r.Multiplier < 0 || (r.Multiplier > 0 && r.Multiplier < 1) {
			return fmt.Errorf("retry.multiplier must be at least 1, got %g", r.Multiplier)
		}
	}

	if c := p.Circuit; c != nil {
		if c.FailureThreshold < 0 {
			return fmt.Errorf("circuit.failure_threshold must not be negative, got %d", c.FailureThreshold)
		}
		if c.RecoveryTimeout < 0 {
			return fmt.Errorf("circuit.recovery_timeout must not be negative, got %s", c.RecoveryTimeout)
		}
	}

	if rl := p.RateLimit; rl != nil {
		if rl.MaxRequests < 0 {
			return fmt.Errorf("rate_limit.max_requests must not be negative, got %d", rl.MaxRequests)
		}
		if rl.Window < 0 {
			return fmt.Errorf("rate_limit.window must not be negative, got %s", rl.Window)
		}
	}

	if b := p.Bulkhead; b != nil {
		if b.MaxConcurrent < 0 {
			return fmt.Errorf("bulkhead.max_concurrent must not be negative, got %d", b.MaxConcurrent)
		}
		if b.MaxWait < 0 {
			return fmt.Errorf("bulkhead.max_wait must not be negative, got %s", b.MaxWait)
		}
	}

	if t := p.Throttle; t != nil {
		if t.Rate < 0 {
			return fmt.Errorf("throttle.rate must not be negative, got %g", t.Rate)
		}
		if t.Burst < 0 {
			return fmt.Errorf("throttle.burst must not be negative, got %d", t.Burst)
		}
	}

	return nil
}
