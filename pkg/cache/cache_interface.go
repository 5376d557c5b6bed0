package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer. Implementations can be swapped
// (Redis, in-memory) without touching callers.
type Cache interface {
	// Get loads the value stored under key into dest.
	// found is false on a miss, in which case dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
