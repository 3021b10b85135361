package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy runs fn until it succeeds, fails permanently, runs out of
// attempts or ctx ends.
type RetryPolicy interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	// Jitter is the randomization factor in [0, 1]; zero keeps delays exact.
	Jitter float64
	// RetryIf overrides IsRetryable.
	RetryIf func(error) bool
}

// DefaultConfig returns conservative defaults for backoff retries.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
	}
}

// ExponentialBackoff retries with exponentially growing delays.
type ExponentialBackoff struct {
	config Config
}

// NewExponentialBackoff applies defaults when config is nil.
func NewExponentialBackoff(config *Config) *ExponentialBackoff {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = IsRetryable
	}
	return &ExponentialBackoff{config: cfg}
}

func (eb *ExponentialBackoff) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if eb.config.BaseDelay > 0 {
		b.InitialInterval = eb.config.BaseDelay
	}
	if eb.config.MaxDelay > 0 {
		b.MaxInterval = eb.config.MaxDelay
	}
	if eb.config.Multiplier >= 1 {
		b.Multiplier = eb.config.Multiplier
	}
	b.RandomizationFactor = eb.config.Jitter
	return b
}

func (eb *ExponentialBackoff) Execute(ctx context.Context, fn func(context.Context) error) error {
	var (
		attempts int
		lastErr  error
	)

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		lastErr = fn(ctx)
		if lastErr == nil {
			return struct{}{}, nil
		}
		if !eb.config.RetryIf(lastErr) {
			return struct{}{}, backoff.Permanent(lastErr)
		}
		return struct{}{}, lastErr
	},
		backoff.WithBackOff(eb.newBackOff()),
		backoff.WithMaxTries(uint(eb.config.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("retry: gave up after %d attempt(s): %w", attempts, errors.Join(ctx.Err(), lastErr))
	case lastErr != nil && !eb.config.RetryIf(lastErr):
		return lastErr
	default:
		return &MaxRetriesExceededError{LastError: lastErr, MaxAttempts: attempts}
	}
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying regardless of its message.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
}

// IsRetryable accepts errors marked Transient and errors whose message
// names a known transient network condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsTransient(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// MaxRetriesExceededError indicates that all retry attempts were exhausted.
type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return fmt.Sprintf("max retries exceeded after %d attempt(s): %v", e.MaxAttempts, e.LastError)
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

func IsMaxRetriesExceeded(err error) bool {
	var maxRetriesErr *MaxRetriesExceededError
	return errors.As(err, &maxRetriesErr)
}
