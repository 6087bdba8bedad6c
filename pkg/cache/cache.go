// Package cache provides the caching layer shared by the suggestion client,
// the render pipeline, and the server: a small byte-oriented Cache interface
// with file, redis, and null backends, plus domain key generation.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used when the caller does not specify an expiration.
const DefaultTTL = 24 * time.Hour

// TTLs for the pipeline's cacheable stages. Built datasets are keyed by a
// content hash of their source rows, so they stay valid until the sources
// change; the TTL only bounds disk growth.
const (
	TTLDataset  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the byte-oriented storage interface. A zero ttl means no
// expiration. Implementations must treat a missing key as a miss, not an
// error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing and always misses. It backs the --no-cache flag
// and keeps the pipeline code free of nil checks.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
