package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "organicare:agenda:generation"

// Cache is an optional Redis read-cache for the composed grid responses.
// Invalidation is by generation: every appointment or clinic mutation
// bumps a counter that is part of every cache key, so stale entries are
// never served and simply expire.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns a cache over the given client. A nil client disables
// caching; every lookup misses.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key builds a generation-scoped cache key.
func (c *Cache) Key(ctx context.Context, parts ...any) string {
	gen := int64(0)
	if c.client != nil {
		if v, err := c.client.Get(ctx, generationKey).Int64(); err == nil {
			gen = v
		}
	}
	key := fmt.Sprintf("organicare:g%d", gen)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Read unmarshals a cached value into out, reporting whether it hit.
func (c *Cache) Read(ctx context.Context, key string, out any) bool {
	if c.client == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

// Write stores a value under key. Failures are silent; the cache is an
// optimization, not a dependency.
func (c *Cache) Write(ctx context.Context, key string, val any) {
	if c.client == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate bumps the generation, orphaning every existing entry.
func (c *Cache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, generationKey).Err()
}
