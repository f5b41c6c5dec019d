package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/turtle/pkg/observability"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry expiry
type MemoryCache struct {
	cache   *lru.LRU[string, memoryEntry]
	ttl     time.Duration
	metrics *observability.Metrics
	now     func() time.Time
}

// NewMemoryCache creates a memory cache
func NewMemoryCache(cfg *Config, metrics *observability.Metrics) *MemoryCache {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxEntries := cfg.MaxEntries
	if maxEntries < 10 {
		maxEntries = 10 // Minimum 10 entries
	}

	// expiry is tracked per entry, so the LRU itself never expires anything
	return &MemoryCache{
		cache:   lru.NewLRU[string, memoryEntry](maxEntries, nil, 0),
		ttl:     cfg.TTL,
		metrics: metrics,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	entry, ok := c.cache.Get(key)
	if ok && !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.cache.Remove(key)
		ok = false
	}

	c.metrics.RecordCacheLookup(BackendMemory, ok)
	if !ok {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, entry)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	c.cache.Remove(key)
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted
func (c *MemoryCache) Len() int {
	return c.cache.Len()
}

func (c *MemoryCache) Close() error {
	c.cache.Purge()
	return nil
}
