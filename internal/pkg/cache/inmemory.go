package cache

import (
	"context"
	"strings"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

const (
	// DefaultExpiration is used when the caller passes no expiration.
	DefaultExpiration = 30 * time.Second
	// DefaultCleanupInterval is how often expired items are removed.
	DefaultCleanupInterval = 5 * time.Minute
)

// InMemoryCache implements Cache on top of github.com/patrickmn/go-cache.
// A disabled cache never stores anything, so every Get misses.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a cache with the given default TTL.
func NewInMemoryCache(enabled bool, ttl time.Duration) *InMemoryCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &InMemoryCache{
		cache:   goCache.New(ttl, DefaultCleanupInterval),
		enabled: enabled,
	}
}

// Enabled reports whether the cache stores values.
func (c *InMemoryCache) Enabled() bool {
	return c.enabled
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(_ context.Context, key string) (any, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set adds a value to the cache with the specified expiration.
func (c *InMemoryCache) Set(_ context.Context, key string, value any, expiration time.Duration) {
	if !c.enabled {
		return
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache.
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix.
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Flush removes all items from the cache.
func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}

// ItemCount returns the number of live items, including expired ones not yet cleaned up.
func (c *InMemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}
