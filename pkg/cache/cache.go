// Package cache provides a response cache for fetched economy documents.
//
// Three backends are available:
//   - file: directory-based cache for CLI usage
//   - redis: Redis-backed cache for server deployments
//   - null: no-op cache when caching is disabled
//
// Keys are derived from request URLs via SHA-256 ([Key]), so backends never
// see raw URLs.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
