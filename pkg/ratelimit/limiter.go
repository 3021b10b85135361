package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Logger interface {
	Error(msg string, args ...any)
}

// RateLimiter decides whether the caller identified by key has used up its
// allowance for the current window.
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// Redis is optional. Without it each process keeps its own buckets.
	Redis  *redis.Client
	Logger Logger
}

func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}
