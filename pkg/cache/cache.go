// Package cache stores fetched pages and captured DOM trees between runs.
//
// The CLI uses [FileCache] under the user cache directory; [NullCache]
// disables caching (--no-cache). Keys are produced by a [Keyer] so that
// pages fetched over HTTP and DOMs captured from a browser never collide.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}
