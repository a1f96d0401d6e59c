package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("not found")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Retry() = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (no retry on permanent error)", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	transient := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: transient}
	})
	if !errors.Is(err, transient) {
		t.Fatalf("Retry() = %v, want wrapped %v", err, transient)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryTransient_UsesFetchPolicy(t *testing.T) {
	if DefaultAttempts != 3 || DefaultBackoff != time.Second {
		t.Fatalf("fetch policy = %d attempts / %v backoff, want 3 / 1s", DefaultAttempts, DefaultBackoff)
	}

	calls := 0
	err := RetryTransient(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("RetryTransient() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (permanent errors never retry)", calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() = %v, want context.Canceled", err)
	}
}
