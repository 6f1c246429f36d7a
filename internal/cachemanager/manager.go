// Package cachemanager holds short-lived, string-keyed caches. The directory
// browser uses it so repeated visits to a directory do not hit the disk.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values under string keys with a TTL.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Flush(ctx context.Context)
	Len() int
}
