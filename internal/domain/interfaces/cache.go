package interfaces

import (
	"context"
	"time"
)

// Cache is the port for the TTL key-value store backing the data access
// layer. Values are JSON strings; serialization is owned by callers.
//
// Expiry is lazy: a read past the TTL is a miss even if no sweep has run.
// Expired entries are retained for a bounded stale window and remain readable
// through GetStale until that window closes; the data access layer uses them
// to prefer stale real data over synthetic fallback when the upstream is
// down.
type Cache interface {
	// Has reports whether a fresh (non-expired) entry exists for key.
	Has(ctx context.Context, key string) bool

	// Get returns the fresh value for key, ErrKeyNotFound if absent, or
	// ErrKeyExpired if present but past its TTL.
	Get(ctx context.Context, key string) (string, error)

	// GetStale returns the value for key even if expired, as long as it is
	// still within the stale window. Returns ErrKeyNotFound otherwise.
	GetStale(ctx context.Context, key string) (string, error)

	// Set stores value under key, resetting its TTL unconditionally.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
