package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks transport failures against the remote suggestion
// service: timeouts, connection errors, and 5xx responses. The suggest
// client wraps it with Retryable so transient faults are retried before the
// local fallback takes over.
var ErrNetwork = errors.New("network error")

// Retry policy for remote calls. Three attempts with doubling delay keeps
// the worst case under the CLI's patience (1s + 2s of waiting).
const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// RetryableError marks an error as worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in its
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn under the retry policy. Errors not wrapped with
// Retryable abort immediately; context cancellation wins over a pending
// backoff delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay
	var lastErr error

	for i := 0; i < retryAttempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
