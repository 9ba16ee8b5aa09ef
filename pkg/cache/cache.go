// Package cache provides content-addressed caching for pipeline results.
// Flattened graphs and rendered artifacts are keyed by hashes of their
// inputs, so repeated runs over an unchanged document skip the expensive
// stages. Because keys are derived from the content they cache, entries
// never go stale; TTLs exist only to bound disk usage.
package cache

import (
	"context"
	"time"
)

// TTLs for each pipeline stage. Flattened graphs are cheap to rebuild,
// rendered artifacts are not.
const (
	// TTLFlat is how long flattened graph documents are kept.
	TTLFlat = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, PNG, DOT) are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage backend for pipeline results.
type Cache interface {
	// Get retrieves a cached value. The second return value reports
	// whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
