package conn

import (
	"context"
	"time"
)

// retryConnect runs connectFn up to MaxRetries times with exponential
// backoff, honoring context cancellation between attempts. connectFn runs
// at least once even when MaxRetries is left zero, so a zero-value
// RetryConfig never reports success without connecting.
func retryConnect(ctx context.Context, opts *RetryConfig, connectFn func(context.Context) error) error {
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second
	}
	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = connectFn(ctx)
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if opts.MaxDelay > 0 && delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}
	return err
}
