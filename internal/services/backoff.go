package services

import (
	"context"
	"time"
)

// BackoffPolicy is an explicit, injectable retry policy for read operations:
// bounded exponential backoff with a fixed attempt ceiling and a set of
// HTTP status codes treated as transient.
type BackoffPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	Multiplier      float64
	RetryableStatus map[int]bool
}

// DefaultBackoffPolicy mirrors the retry configuration the upstream services
// tolerate: five attempts, half-second base delay, doubling per attempt.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2.0,
		RetryableStatus: map[int]bool{
			500: true,
			502: true,
			503: true,
			504: true,
		},
	}
}

// Retryable reports whether the policy treats the HTTP status as transient.
func (p BackoffPolicy) Retryable(status int) bool {
	return p.RetryableStatus[status]
}

// Delay returns the backoff delay before the given 1-based retry attempt.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
	}
	return d
}

// Do invokes fn until it succeeds, returns a non-transient error, or the
// attempt ceiling is reached. Only transient [NetworkError] failures are
// retried. The context is honored between attempts.
func (p BackoffPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(p.Delay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}
