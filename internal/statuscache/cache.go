package statuscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "washreq:"

// Cache holds rendered wash-request status payloads between polls.
type Cache interface {
	// Get decodes the cached value for id into dst and reports whether it was present.
	Get(ctx context.Context, id string, dst any) (bool, error)
	Set(ctx context.Context, id string, v any) error
	Invalidate(ctx context.Context, id string) error
}

// RedisCache stores JSON-encoded payloads in redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (c *RedisCache) Get(ctx context.Context, id string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached status %s: %w", id, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode status %s: %w", id, err)
	}
	if err := c.client.Set(ctx, key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}

// Noop is used when no redis is configured; every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Invalidate(context.Context, string) error       { return nil }
