package httputil

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/matzehuels/stayscout/pkg/errors"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with linear backoff: before retry n
// (1-based) it waits n*delay. fn receives the zero-based attempt number so it
// can take a fresh rate-limit grant per attempt.
//
// Only errors wrapped with [RetryableError] or carrying TRANSPORT_ERROR are
// retried; anything else is returned immediately. Returns the last error if
// all attempts fail, or ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(attempt int) error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(i); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * delay):
			}
		}
	}
	return lastErr
}

// IsRetryable reports whether err should trigger another attempt.
func IsRetryable(err error) bool {
	return goerrors.As(err, new(*RetryableError)) || errors.IsRetryable(err)
}
