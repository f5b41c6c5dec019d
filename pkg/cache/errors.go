package cache

import "errors"

var (
	// ErrCacheMiss is returned when a cache key is not found
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidCacheKey is returned when a cache key is empty
	ErrInvalidCacheKey = errors.New("invalid cache key")

	// ErrUnknownBackend is returned by New for an unrecognised backend
	ErrUnknownBackend = errors.New("unknown cache backend")
)
