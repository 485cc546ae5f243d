// Package cache stores rendered artifacts so repeated runs skip the work.
//
// A run is cacheable only when its seed is explicit: the artifact is then a
// pure function of the source image, the step table, the blending strength,
// the seed, the resize target and the output format. [Keyer] turns those
// into a key; [Cache] implementations store the bytes.
//
// Backends:
//   - [FileCache]: zstd-compressed files under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
