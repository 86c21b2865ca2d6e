package cache

import (
	"context"
	"sync"
	"time"

	"stock-data-service/internal/domain/interfaces"
)

// DefaultStaleFactor is how many TTLs an expired entry is retained for
// stale-if-error reads before it is dropped entirely.
const DefaultStaleFactor = 6

// cacheItem is one stored value with its freshness and retention deadlines.
type cacheItem struct {
	value      string
	storedAt   time.Time
	expiresAt  time.Time
	staleUntil time.Time
}

// isExpired reports whether the item is past its TTL.
func (item *cacheItem) isExpired() bool {
	return !time.Now().Before(item.expiresAt)
}

// isDead reports whether the item is past its stale window and must be evicted.
func (item *cacheItem) isDead() bool {
	return !time.Now().Before(item.staleUntil)
}

// MemoryCache implements the Cache interface using local memory.
type MemoryCache struct {
	items       map[string]*cacheItem
	staleFactor int
	mu          sync.RWMutex
}

// NewMemoryCache creates an in-memory cache with the default stale window.
func NewMemoryCache() interfaces.Cache {
	return NewMemoryCacheWithStaleFactor(DefaultStaleFactor)
}

// NewMemoryCacheWithStaleFactor creates an in-memory cache retaining expired
// entries for staleFactor TTLs. A factor below 1 disables stale retention.
func NewMemoryCacheWithStaleFactor(staleFactor int) interfaces.Cache {
	if staleFactor < 1 {
		staleFactor = 1
	}
	return &MemoryCache{
		items:       make(map[string]*cacheItem),
		staleFactor: staleFactor,
	}
}

// Has reports whether a fresh entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)
	return err == nil
}

// Get returns the fresh value for key, applying lazy expiry.
func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return "", ErrKeyNotFound
	}

	if item.isDead() {
		// Past the stale window, drop it to avoid leaking memory
		_ = c.Delete(ctx, key)
		return "", ErrKeyNotFound
	}

	if item.isExpired() {
		// Keep the entry: it is still usable through GetStale
		return "", ErrKeyExpired
	}

	return item.value, nil
}

// GetStale returns the value for key even past its TTL, as long as the stale
// window has not closed.
func (c *MemoryCache) GetStale(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return "", ErrKeyNotFound
	}

	if item.isDead() {
		_ = c.Delete(ctx, key)
		return "", ErrKeyNotFound
	}

	return item.value, nil
}

// Set stores a value with TTL and performs a light sweep of dead entries.
func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, item := range c.items {
		if !now.Before(item.staleUntil) {
			delete(c.items, k)
		}
	}

	c.items[key] = &cacheItem{
		value:      value,
		storedAt:   now,
		expiresAt:  now.Add(ttl),
		staleUntil: now.Add(ttl * time.Duration(c.staleFactor)),
	}

	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// Size returns the number of elements in the cache, stale entries included
// (auxiliary method for debugging).
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cleanup removes entries past their stale window (auxiliary method).
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if !now.Before(item.staleUntil) {
			delete(c.items, key)
		}
	}
}
