package cachemanager

import (
	"context"
	"time"
)

// Loader produces the value for key on a cache miss.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// ReadThroughCache fills the cache from a Loader on misses. Errors are
// never cached.
type ReadThroughCache[V any] struct {
	cache CacheManager[V]
	load  Loader[V]
	ttl   time.Duration
	skip  bool
}

// NewReadThroughCache wraps cache. With skip set every Get goes to load.
func NewReadThroughCache[V any](cache CacheManager[V], load Loader[V], ttl time.Duration, skip bool) *ReadThroughCache[V] {
	return &ReadThroughCache[V]{cache: cache, load: load, ttl: ttl, skip: skip}
}

func (r *ReadThroughCache[V]) Get(ctx context.Context, key string) (V, error) {
	if r.skip {
		return r.load(ctx, key)
	}
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, nil
	}
	v, err := r.load(ctx, key)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, r.ttl)
	return v, nil
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[V]) Invalidate(ctx context.Context, key string) {
	if r.skip || r.cache == nil {
		return
	}
	r.cache.Delete(ctx, key)
}
