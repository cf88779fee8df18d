package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache loads missing keys with fn and caches successful results.
// Errors are returned uncached so a later call retries.
type ReadThroughCache[K ~string, V any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, key K) (V, error)
	ttl   time.Duration
}

func NewReadThroughCache[K ~string, V any](cache CacheManager[K, V], ttl time.Duration, fn func(ctx context.Context, key K) (V, error)) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{cache: cache, fn: fn, ttl: ttl}
}

// Get returns the cached value for key, loading it on a miss. hit reports
// whether the value came from the cache.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (value V, hit bool, err error) {
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, true, nil
	}
	v, err := r.fn(ctx, key)
	if err != nil {
		return v, false, err
	}
	r.cache.Set(ctx, key, v, r.ttl)
	return v, false, nil
}
