package cache

import "errors"

var (
	// ErrKeyNotFound is returned when a key is absent or past its stale window.
	ErrKeyNotFound = errors.New("key not found in cache")
	// ErrKeyExpired is returned when a key exists but is past its TTL. The
	// entry is still readable through GetStale until the stale window closes.
	ErrKeyExpired = errors.New("key expired in cache")
)
