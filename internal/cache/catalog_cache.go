package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache caches derived catalog reads (distinct label lists,
// top/recent lists) in Redis. A nil CatalogCache or one without a client
// degrades to a pass-through, so the API works without Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalogCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*CatalogCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CatalogCache{client: rdb, ttl: ttl, logger: logger}, nil
}

// GetJSON loads a cached value into dest, reporting whether it was found.
func (c *CatalogCache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores a value under key with the configured TTL. Best effort:
// cache write failures are logged, never surfaced.
func (c *CatalogCache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", "key", key, "error", err)
	}
}

// Invalidate drops every catalog entry. Called after any game write so
// cached lists never serve stale data.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	keys, err := c.client.Keys(ctx, "catalog:*").Result()
	if err != nil {
		c.logger.Warn("failed to list cache keys", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate cache", "error", err)
	}
}

// Close releases the underlying client.
func (c *CatalogCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
