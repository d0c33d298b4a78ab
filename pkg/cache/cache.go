// Package cache stores parsed layer files between runs.
//
// Parsing a full die layer means tokenizing hundreds of thousands of vertex
// lines. The loader hashes each file's content and looks the parsed polygons
// up here before parsing, so re-running an extraction after editing one layer
// only re-parses that layer.
//
// Backends:
//   - [FileCache]: one snappy-compressed file per entry under a directory
//     (the CLI default, ~/.cache/dienet).
//   - [RedisCache]: a shared Redis instance, for teams extracting the same die.
//   - [NullCache]: caching disabled.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long parsed layers are kept.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
