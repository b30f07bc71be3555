package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local cache with per-entry TTL. Expired entries
// are never returned and are dropped by Sweep; there is no background
// janitor.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	value, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value. A ttl <= 0 keeps the entry until overwritten.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Sweep removes expired entries and reports how many were removed. Writes
// racing with a sweep can skew the count, never the contents.
func (c *MemoryCache) Sweep() int {
	before := c.items.ItemCount()
	c.items.DeleteExpired()
	if removed := before - c.items.ItemCount(); removed > 0 {
		return removed
	}
	return 0
}

// Len counts stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
