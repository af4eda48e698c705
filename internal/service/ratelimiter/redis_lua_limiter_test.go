package ratelimiter

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLuaLimiter(t *testing.T) *RedisLuaLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLuaLimiter(rdb, nil)
}

func TestNewBucketConfigFromPerMinute(t *testing.T) {
	cfg := NewBucketConfigFromPerMinute(60)
	assert.Equal(t, int64(60), cfg.Capacity)
	assert.Equal(t, 1.0, cfg.RefillRate)
	assert.Equal(t, BucketConfig{}, NewBucketConfigFromPerMinute(0))
}

func TestRedisLuaLimiter_NilFailsOpen(t *testing.T) {
	var limiter *RedisLuaLimiter
	allowed, retryAfter, err := limiter.Allow(context.Background(), "any", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
	assert.Nil(t, NewRedisLuaLimiter(nil, nil))
}

func TestRedisLuaLimiter_NoBucketAllows(t *testing.T) {
	limiter := newTestRedisLuaLimiter(t)
	allowed, _, err := limiter.Allow(context.Background(), "unknown", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLuaLimiter_RespectsCapacity(t *testing.T) {
	ctx := context.Background()
	limiter := newTestRedisLuaLimiter(t)
	limiter.SetBucketConfig("groq", BucketConfig{Capacity: 3, RefillRate: 0.01})

	for i := 0; i < 3; i++ {
		allowed, retryAfter, err := limiter.Allow(ctx, "groq", 1)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d", i)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "groq", 1)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 50*time.Second)
}

func TestLocalLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(map[string]BucketConfig{"groq": NewBucketConfigFromPerMinute(2)})
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _ := l.Allow(ctx, "groq", 1)
		require.True(t, allowed)
	}
	allowed, retryAfter, err := l.Allow(ctx, "groq", 1)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, retryAfter)

	now = now.Add(30 * time.Second)
	allowed, _, _ = l.Allow(ctx, "groq", 1)
	assert.True(t, allowed)

	allowed, _, _ = l.Allow(ctx, "other", 1)
	assert.True(t, allowed, "unconfigured keys are not limited")
}
