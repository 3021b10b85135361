package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestExecute_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := NewExponentialBackoff(fastConfig(3)).Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Transient(errors.New("upstream hiccup"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	calls := 0
	cause := errors.New("dial tcp: connection refused")

	err := NewExponentialBackoff(fastConfig(3)).Execute(context.Background(), func(context.Context) error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.True(t, IsMaxRetriesExceeded(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, calls)

	var maxErr *MaxRetriesExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, 3, maxErr.MaxAttempts)
}

func TestExecute_StopsOnPermanentError(t *testing.T) {
	calls := 0
	rejected := errors.New("payload rejected")

	err := NewExponentialBackoff(fastConfig(5)).Execute(context.Background(), func(context.Context) error {
		calls++
		return rejected
	})

	assert.Same(t, rejected, err)
	assert.False(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 1, calls)
}

func TestExecute_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	cfg := fastConfig(10)
	cfg.BaseDelay = time.Hour
	cfg.MaxDelay = time.Hour

	done := make(chan error, 1)
	go func() {
		done <- NewExponentialBackoff(cfg).Execute(ctx, func(context.Context) error {
			calls++
			return Transient(errors.New("busy"))
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("retry did not stop when the context was cancelled")
	}
}

func TestExecute_CustomRetryIf(t *testing.T) {
	calls := 0
	cfg := fastConfig(4)
	cfg.RetryIf = func(error) bool { return true }

	err := NewExponentialBackoff(cfg).Execute(context.Background(), func(context.Context) error {
		calls++
		return errors.New("anything")
	})

	assert.True(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 4, calls)
}

func TestNewExponentialBackoff_Defaults(t *testing.T) {
	eb := NewExponentialBackoff(nil)
	assert.Equal(t, 3, eb.config.MaxAttempts)
	assert.NotNil(t, eb.config.RetryIf)

	assert.Equal(t, 1, NewExponentialBackoff(&Config{}).config.MaxAttempts)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(Transient(errors.New("x"))))
	assert.True(t, IsRetryable(errors.New("i/o Timeout")))
	assert.True(t, IsRetryable(errors.New("503 Service Unavailable")))
	assert.False(t, IsRetryable(errors.New("bad request")))
	assert.Nil(t, Transient(nil))
}
