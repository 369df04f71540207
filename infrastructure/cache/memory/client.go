// ABOUTME: In-memory cache backend built on patrickmn/go-cache
// ABOUTME: A janitor goroutine sweeps expired entries; TTL 0 stores entries with no expiry

package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"newshub-core/core/interfaces"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the janitor drops expired entries
const DefaultCleanupInterval = 60 * time.Second

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache with the default janitor interval
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithCleanup(DefaultCleanupInterval)
}

// NewMemoryCacheWithCleanup creates a cache whose janitor runs every interval.
// A non-positive interval disables the janitor; expired entries are still hidden on read.
func NewMemoryCacheWithCleanup(interval time.Duration) *MemoryCache {
	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, interval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	stored := value.([]byte)
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, ttl)

	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Keys lists unexpired keys with the given prefix in sorted order
func (c *MemoryCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	for k := range c.items.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Flush drops every entry
func (c *MemoryCache) Flush() {
	c.items.Flush()
}

// DeleteExpired drops expired entries immediately instead of waiting for the janitor
func (c *MemoryCache) DeleteExpired() {
	c.items.DeleteExpired()
}

// Len returns the number of stored entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
