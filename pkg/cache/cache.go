package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/observability"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache is the key/value cache handed to plugins as the MemcachedCache
// collaborator
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config holds cache configuration
type Config struct {
	Backend    string
	MaxEntries int           // memory backend only
	TTL        time.Duration // default TTL when Set is given zero
	KeyPrefix  string
	RedisURL   string
}

// DefaultConfig returns default cache configuration
func DefaultConfig() *Config {
	return &Config{
		Backend:    BackendMemory,
		MaxEntries: 1024,
		TTL:        5 * time.Minute,
		KeyPrefix:  "turtle:",
	}
}

// New creates the cache selected by cfg.Backend
func New(cfg *Config, metrics *observability.Metrics, log *logrus.Logger) (Cache, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logrus.New()
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryCache(cfg, metrics), nil
	case BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		log.Debugf("Using redis cache at %s", opts.Addr)
		return NewRedisCache(redis.NewClient(opts), cfg, metrics), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
