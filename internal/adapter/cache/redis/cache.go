// Package rediscache stores raw scoring responses in Redis so replicas share
// one response cache.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

const keyPrefix = "score:"

// Cache implements domain.ResponseCache on a Redis client.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps rdb. A non-positive ttl keeps entries until evicted by Redis.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: max(ttl, 0)}
}

// NewClient parses a redis:// URL and returns a client with tracing enabled.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=rediscache.NewClient: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=rediscache.NewClient tracing: %w", err)
	}
	return rdb, nil
}

// Get implements domain.ResponseCache.
func (c *Cache) Get(ctx domain.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("op=rediscache.Get: %w", err)
	}
	return v, true, nil
}

// Set implements domain.ResponseCache.
func (c *Cache) Set(ctx domain.Context, key, value string) error {
	if err := c.rdb.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=rediscache.Set: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
