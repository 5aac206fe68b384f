package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffPolicy(t *testing.T) {
	t.Run("Retryable", func(t *testing.T) {
		policy := DefaultBackoffPolicy()
		for _, status := range []int{500, 502, 503, 504} {
			if !policy.Retryable(status) {
				t.Errorf("expected status %d to be retryable", status)
			}
		}
		for _, status := range []int{200, 400, 401, 403, 404} {
			if policy.Retryable(status) {
				t.Errorf("expected status %d not to be retryable", status)
			}
		}
	})

	t.Run("Delay doubles per attempt", func(t *testing.T) {
		policy := DefaultBackoffPolicy()
		cases := map[int]time.Duration{
			1: 500 * time.Millisecond,
			2: time.Second,
			3: 2 * time.Second,
			4: 4 * time.Second,
		}
		for attempt, want := range cases {
			if got := policy.Delay(attempt); got != want {
				t.Errorf("attempt %d: expected %v, got %v", attempt, want, got)
			}
		}
	})
}

func TestBackoffDo(t *testing.T) {
	ctx := context.Background()

	fastPolicy := func() BackoffPolicy {
		return BackoffPolicy{
			MaxAttempts:     3,
			BaseDelay:       time.Millisecond,
			Multiplier:      2.0,
			RetryableStatus: map[int]bool{503: true},
		}
	}

	t.Run("returns immediately on success", func(t *testing.T) {
		calls := 0
		err := fastPolicy().Do(ctx, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := fastPolicy().Do(ctx, func() error {
			calls++
			if calls < 3 {
				return &NetworkError{Op: "test", Err: errors.New("status 503")}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("does not retry non-transient errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := fastPolicy().Do(ctx, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the original error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("gives up at the attempt ceiling", func(t *testing.T) {
		calls := 0
		err := fastPolicy().Do(ctx, func() error {
			calls++
			return &NetworkError{Op: "test", Err: errors.New("status 503")}
		})
		if !IsTransient(err) {
			t.Fatalf("expected the last transient error, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("honors a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := fastPolicy().Do(cancelled, func() error {
			calls++
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected no calls, got %d", calls)
		}
	})

	t.Run("treats a zero attempt ceiling as one attempt", func(t *testing.T) {
		policy := BackoffPolicy{RetryableStatus: map[int]bool{}}
		calls := 0
		err := policy.Do(ctx, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(&NetworkError{Op: "x", Err: errors.New("y")}) {
		t.Error("expected NetworkError to be transient")
	}
	if IsTransient(&ServerError{API: "x", Code: 400}) {
		t.Error("expected ServerError not to be transient")
	}
	if IsTransient(errors.New("plain")) {
		t.Error("expected plain error not to be transient")
	}
}
