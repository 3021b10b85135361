package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// InMemoryRateLimiter keeps one token bucket per key. Buckets idle for two
// windows are evicted by the cache janitor.
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	buckets *gocache.Cache
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	idle := 2 * window
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		buckets:  gocache.New(idle, idle),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.bucket(key)
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(r.requests)/r.window.Seconds()), r.requests)
	}
	// Re-setting refreshes the idle expiry.
	r.buckets.SetDefault(key, bucket)

	return !bucket.Allow(), nil
}

func (r *InMemoryRateLimiter) bucket(key string) (*rate.Limiter, bool) {
	cached, found := r.buckets.Get(key)
	if !found {
		return nil, false
	}
	bucket, ok := cached.(*rate.Limiter)
	return bucket, ok
}

func (r *InMemoryRateLimiter) Close() error {
	r.buckets.Flush()
	return nil
}
