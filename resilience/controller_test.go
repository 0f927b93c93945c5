package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oakmount/ward/failure"
)

func TestController_InitialState(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 3})

	st := c.State()
	if st.Attempt != 0 || st.LastError != nil || st.IsRetrying || !st.NextRetryAt.IsZero() {
		t.Errorf("initial state = %+v, want zero state", st)
	}
	if c.CanRetry() {
		t.Error("CanRetry before any attempt = true, want false")
	}
}

func TestController_Scenario_FailThenManualRetrySucceeds(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 2, BaseDelay: 100 * time.Millisecond})

	invoked := 0
	op := func(ctx context.Context) error {
		invoked++
		if invoked == 1 {
			return retryableErr("first try fails")
		}
		return nil
	}

	err := c.Execute(context.Background(), op)
	if err == nil {
		t.Fatal("first Execute error = nil, want failure")
	}

	st := c.State()
	if st.Attempt != 1 {
		t.Errorf("Attempt = %d, want 1", st.Attempt)
	}
	if st.LastError == nil {
		t.Error("LastError = nil after failure")
	}
	if st.NextRetryAt.IsZero() {
		t.Error("NextRetryAt not computed after retryable failure")
	}
	if !c.CanRetry() {
		t.Fatal("CanRetry = false, want true")
	}

	if err := c.Retry(context.Background(), op); err != nil {
		t.Fatalf("Retry error = %v", err)
	}
	if invoked != 2 {
		t.Errorf("invoked = %d, want 2", invoked)
	}

	st = c.State()
	if st.IsRetrying {
		t.Error("IsRetrying = true after success")
	}
	if st.LastError != nil {
		t.Errorf("LastError = %v after success, want nil", st.LastError)
	}
	if !st.NextRetryAt.IsZero() {
		t.Error("NextRetryAt not cleared after success")
	}
}

func TestController_RetryWithoutFailure(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 3})

	err := c.Retry(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrNotRetryable) {
		t.Errorf("Retry error = %v, want ErrNotRetryable", err)
	}
}

func TestController_ExhaustedAttemptsBlockRetry(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 2})

	fail := func(ctx context.Context) error { return retryableErr("down") }
	_ = c.Execute(context.Background(), fail)
	_ = c.Retry(context.Background(), fail)

	if c.CanRetry() {
		t.Error("CanRetry = true after exhausting attempts")
	}
	if err := c.Retry(context.Background(), fail); !errors.Is(err, ErrNotRetryable) {
		t.Errorf("Retry error = %v, want ErrNotRetryable", err)
	}
}

func TestController_NonRetryableFailureBlocksRetry(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 3})

	_ = c.Execute(context.Background(), func(ctx context.Context) error {
		return failure.New(failure.CodeBadRequest, "malformed")
	})

	if c.CanRetry() {
		t.Error("CanRetry = true for non-retryable failure")
	}
}

func TestController_NextRetryAtGrowsWithAttempts(t *testing.T) {
	clock := newFakeClock()
	c := NewController(Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 2.0})
	c.now = clock.Now

	fail := func(ctx context.Context) error { return retryableErr("down") }

	_ = c.Execute(context.Background(), fail)
	first := c.State().NextRetryAt
	if want := clock.Now().Add(100 * time.Millisecond); !first.Equal(want) {
		t.Errorf("NextRetryAt after attempt 1 = %v, want %v", first, want)
	}

	_ = c.Retry(context.Background(), fail)
	second := c.State().NextRetryAt
	if want := clock.Now().Add(200 * time.Millisecond); !second.Equal(want) {
		t.Errorf("NextRetryAt after attempt 2 = %v, want %v", second, want)
	}
}

func TestController_NeverSleeps(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 3, BaseDelay: time.Hour})

	start := time.Now()
	_ = c.Execute(context.Background(), func(ctx context.Context) error {
		return retryableErr("down")
	})
	_ = c.Retry(context.Background(), func(ctx context.Context) error {
		return nil
	})

	// Waiting is a caller concern; the controller returns immediately.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("controller paused for %v, want no sleeping", elapsed)
	}
}

func TestController_ConcurrentExecuteBlocked(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 5})

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	if !c.State().IsRetrying {
		t.Error("IsRetrying = false while attempt in flight")
	}
	if c.CanRetry() {
		t.Error("CanRetry = true while attempt in flight")
	}

	err := c.Execute(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrRetryInFlight) {
		t.Errorf("concurrent Execute error = %v, want ErrRetryInFlight", err)
	}

	close(release)
	wg.Wait()

	if c.State().IsRetrying {
		t.Error("IsRetrying stuck true after attempt finished")
	}
}

func TestController_Reset(t *testing.T) {
	c := NewController(Policy{MaxAttempts: 2})

	_ = c.Execute(context.Background(), func(ctx context.Context) error {
		return retryableErr("down")
	})
	c.Reset()

	st := c.State()
	if st.Attempt != 0 || st.LastError != nil || !st.NextRetryAt.IsZero() || st.IsRetrying {
		t.Errorf("state after Reset = %+v, want zero state", st)
	}

	// A fresh run behaves like a newly constructed controller.
	if err := c.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("Execute after Reset error = %v", err)
	}
	if got := c.State().Attempt; got != 1 {
		t.Errorf("Attempt after Reset+Execute = %d, want 1", got)
	}
}
