// Package cache stores pipeline results keyed by content hash.
//
// Two stages of the pipeline are cached: the computed layout (keyed by the
// hash of the input records and the layout constants) and each rendered
// artifact (keyed by the hash of the layout and the render options). Keys are
// built by a [Keyer] so several tenants can share one backend.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry under ~/.cache/treeprint (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry this cache owns.
	Clear(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
