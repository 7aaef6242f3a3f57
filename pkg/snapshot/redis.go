package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores environment documents in Redis as JSON with a TTL, so
// every replica sees the same snapshot and an Invalidate from any node
// takes effect cluster-wide.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithKeyPrefix overrides the default "env-document:" key prefix.
func WithKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewRedisCache creates a Redis-backed document cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "env-document:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Document, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Join(ErrCacheUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt entry is treated as a miss so the source rebuilds it,
		// rather than failing every evaluation until the TTL expires.
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false, nil
	}
	return &doc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Join(ErrEncodeDocument, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
