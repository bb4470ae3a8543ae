package requests

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"finboard/src/utils"

	"github.com/sethvargo/go-retry"
)

// WithRetry calls fn up to attempts+1 times with a constant delay, retrying
// only network failures, 429 and 5xx responses.
func WithRetry(ctx context.Context, attempts uint64, delay time.Duration, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(attempts, retry.NewConstant(delay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == http.StatusTooManyRequests || httpErr.Code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
