package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewThrottle_Defaults(t *testing.T) {
	th := NewThrottle(ThrottleConfig{})

	if th.config.Rate != 100 {
		t.Errorf("Rate = %f, want 100", th.config.Rate)
	}
	if th.config.Burst != 10 {
		t.Errorf("Burst = %d, want 10", th.config.Burst)
	}
	if th.config.MaxWait != time.Second {
		t.Errorf("MaxWait = %v, want 1s", th.config.MaxWait)
	}
}

func TestThrottle_AllowWithinBurst(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if !th.Allow() {
			t.Fatalf("Allow %d = false, want true within burst", i+1)
		}
	}
	if th.Allow() {
		t.Error("Allow beyond burst = true, want false")
	}
}

func TestThrottle_ExecuteRejects(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Rate: 0.001, Burst: 1})
	ctx := context.Background()

	if err := th.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("first Execute error = %v", err)
	}
	err := th.Execute(ctx, func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrThrottled) {
		t.Errorf("Execute beyond burst error = %v, want ErrThrottled", err)
	}
}

func TestThrottle_WaitOnLimit(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Rate: 100, Burst: 1, WaitOnLimit: true, MaxWait: time.Second})
	ctx := context.Background()

	// Burst token plus one refill within MaxWait.
	if err := th.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("first Execute error = %v", err)
	}
	if err := th.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("waiting Execute error = %v, want token within MaxWait", err)
	}
}

func TestThrottle_WaitMaxWaitExceeded(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Rate: 0.001, Burst: 1, WaitOnLimit: true, MaxWait: 20 * time.Millisecond})
	ctx := context.Background()

	th.Allow() // drain the burst token
	if err := th.Wait(ctx); !errors.Is(err, ErrThrottled) {
		t.Errorf("Wait error = %v, want ErrThrottled after MaxWait", err)
	}
}

func TestThrottle_WaitCallerCancellation(t *testing.T) {
	// Refill must fit inside MaxWait so Wait genuinely blocks; only then
	// can the caller's cancellation be what ends it.
	th := NewThrottle(ThrottleConfig{Rate: 0.5, Burst: 1, MaxWait: time.Minute})

	th.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := th.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}
