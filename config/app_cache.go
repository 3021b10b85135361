package config

import (
	"context"
	"errors"
	"strconv"

	"github.com/akeren/levelup-fit/internal/log"
	pkgredis "github.com/akeren/levelup-fit/pkg/redis"
)

// Cache is the optional shared backend. Rate limiting reaches the Redis
// client through router.RedisClientProvider.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (cc CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     strconv.Itoa(cc.Port),
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cache (Redis) connected", "host", cc.Host, "port", cc.Port)
	return cache, nil
}

// NewCacheOrNil never fails: without Redis the process falls back to
// per-instance rate limiting.
func (cc CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil
	}
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
