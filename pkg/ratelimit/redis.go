package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisKeyPrefix = "ratelimit:"

// slidingWindow trims members older than the window, then admits the request
// only while the window holds fewer than limit members.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local expire = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
	return 1
end
redis.call('ZADD', key, now, ARGV[5])
redis.call('EXPIRE', key, expire)
return 0
`)

// RedisRateLimiter shares a sliding window across every replica.
type RedisRateLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	logger   Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:   client,
		requests: requests,
		window:   window,
		logger:   logger,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fullKey := redisKeyPrefix + key

	result, err := slidingWindow.Run(ctx, r.client, []string{fullKey},
		time.Now().UnixMilli(),
		r.window.Milliseconds(),
		r.requests,
		int64((2 * r.window).Seconds()),
		uuid.NewString(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("ratelimit: redis: %w", err)
	}
	return result == 1, nil
}

// Close is a no-op; the Redis client belongs to the application cache.
func (r *RedisRateLimiter) Close() error {
	return nil
}
