// Package remote holds the response checks and retry policy shared by the
// HTTP clients of the speech and translate endpoints.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

const retryDelay = 100 * time.Millisecond

// ErrMalformedResponse marks a response body that could not be decoded.
// Asking again returns the same body, so it is never retried.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for unexpected response codes.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response code: %d", e.Code)
}

// IsRetryable reports whether a request that failed with err may succeed
// when sent again: server errors, rate limiting and transport failures.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry calls fn until it succeeds, returns an error that is not retryable
// or retries are used up. The returned error is the last one fn returned.
func Retry(ctx context.Context, retries uint, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err != nil && !IsRetryable(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
