package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The dataset endpoint
// occasionally answers with a 5xx or drops the connection mid-request;
// the client wraps those in RetryableError so [Retry] tries again,
// while 4xx and decode failures pass through untouched.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry policy for dataset fetches. Three tries rides out the
// endpoint's short 5xx blips without stretching a dead-network failure
// past a few seconds of backoff.
const (
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// RetryTransient runs fn with the dataset-fetch retry policy:
// [DefaultAttempts] tries, starting at [DefaultBackoff] between them.
func RetryTransient(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultAttempts, DefaultBackoff, fn)
}

// Retry runs fn up to attempts times, doubling delay after each failed
// try. Only errors wrapped in [RetryableError] are retried; anything
// else returns immediately. A cancelled context returns ctx.Err()
// instead of sleeping out the remaining backoff.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	for try := 0; ; try++ {
		err := fn()
		if err == nil {
			return nil
		}
		var transient *RetryableError
		if !errors.As(err, &transient) {
			return err
		}
		if try == attempts-1 {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
