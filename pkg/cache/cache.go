// Package cache stores rendered overlay artifacts and decoded recordings.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP server and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so that every part of the system derives the same key for the same
// inputs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// A miss is reported by ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	TTLArtifact  = 24 * time.Hour
	TTLRecording = 10 * time.Minute
)
