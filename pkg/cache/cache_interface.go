package cache

import (
	"context"
	"time"
)

// Cache is the contract for the key/value cache layer.
// Implementations: Redis (production) and an in-process map (tests).
type Cache interface {
	// Get reads key into dest.
	// found = false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
