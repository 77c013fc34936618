package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rotunda/pkg/platform/sentinel"
)

const keyPrefix = "rotunda:upstream:"

// RedisCache stores upstream responses in Redis so that several server
// replicas share one quota-friendly cache.
type RedisCache struct {
	client redis.Cmdable
}

// NewRedisCache wraps a go-redis client.
func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached body or sentinel.ErrNotFound on miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return body, nil
}

// Set stores body under key with ttl.
func (c *RedisCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+key, body, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
