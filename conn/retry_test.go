package conn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryConnect_ZeroMaxRetriesStillConnects(t *testing.T) {
	calls := 0
	err := retryConnect(context.Background(), &RetryConfig{}, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "a zero-value retry config still attempts the connection")
}

func TestRetryConnect_ZeroMaxRetriesReturnsTheFailure(t *testing.T) {
	boom := errors.New("refused")
	calls := 0
	err := retryConnect(context.Background(), &RetryConfig{}, func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryConnect_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	opts := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}
	err := retryConnect(context.Background(), opts, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryConnect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := &RetryConfig{MaxRetries: 5, BaseDelay: time.Minute}
	calls := 0
	err := retryConnect(ctx, opts, func(context.Context) error {
		calls++
		cancel()
		return errors.New("refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
