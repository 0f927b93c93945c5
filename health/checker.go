package health

import (
	"context"
	"time"
)

// Status represents the health of a protected component.
type Status int

const (
	// StatusHealthy indicates the component is admitting calls normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component works but with reduced capacity.
	StatusDegraded
	// StatusUnhealthy indicates the component is refusing calls.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one health check. Details carries the
// component state behind the verdict (breaker state, window occupancy,
// bulkhead slots) so operators see why, not just what.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	CheckedAt time.Time
	Err       error
}

// Healthy creates a healthy result. details may be nil.
func Healthy(message string, details map[string]any) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		Details:   details,
		CheckedAt: time.Now(),
	}
}

// Degraded creates a degraded result. details may be nil.
func Degraded(message string, details map[string]any) Result {
	return Result{
		Status:    StatusDegraded,
		Message:   message,
		Details:   details,
		CheckedAt: time.Now(),
	}
}

// Unhealthy creates an unhealthy result carrying the refusal error.
// details may be nil.
func Unhealthy(message string, err error, details map[string]any) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Details:   details,
		Err:       err,
		CheckedAt: time.Now(),
	}
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

type checkerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc adapts an ordinary function to the Checker interface.
func NewCheckerFunc(name string, fn func(context.Context) Result) Checker {
	return &checkerFunc{name: name, fn: fn}
}

func (f *checkerFunc) Name() string {
	return f.name
}

func (f *checkerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
