// Package cache provides the byte cache used by the registry clients to
// avoid repeating a lookup within a single run.
//
// Two implementations are provided:
//   - [MemoryCache]: process-local map with optional TTL
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Nothing is persisted between runs.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
