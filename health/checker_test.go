package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestResult_Constructors(t *testing.T) {
	h := Healthy("all good", map[string]any{"state": "closed"})
	if h.Status != StatusHealthy || h.Message != "all good" {
		t.Errorf("Healthy() = %+v", h)
	}
	if h.CheckedAt.IsZero() {
		t.Error("Healthy() should set CheckedAt")
	}
	if h.Details["state"] != "closed" {
		t.Errorf("Details = %v", h.Details)
	}

	d := Degraded("slow", nil)
	if d.Status != StatusDegraded || d.Details != nil {
		t.Errorf("Degraded() = %+v", d)
	}

	cause := errors.New("down")
	u := Unhealthy("broken", cause, nil)
	if u.Status != StatusUnhealthy || u.Err != cause {
		t.Errorf("Unhealthy() = %+v", u)
	}
}

func TestCheckerFunc(t *testing.T) {
	called := false
	c := NewCheckerFunc("custom", func(ctx context.Context) Result {
		called = true
		return Degraded("draining", nil)
	})

	if c.Name() != "custom" {
		t.Errorf("Name() = %q, want custom", c.Name())
	}

	result := c.Check(context.Background())
	if !called {
		t.Error("Check() did not invoke wrapped function")
	}
	if result.Status != StatusDegraded {
		t.Errorf("Check() status = %v, want degraded", result.Status)
	}
}
