package cache

import (
	"context"
	"time"
)

// Cache is the contract for the lookup cache layer. Implementations may be
// backed by Redis or be a no-op when no cache is configured.
type Cache interface {
	// Get reads key into dest. found is false on a miss; dest is left
	// untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the cache backend is reachable.
	Ping(ctx context.Context) error
}
