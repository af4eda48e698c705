package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// LocalLimiter is the in-process token bucket used without Redis.
type LocalLimiter struct {
	mu      sync.Mutex
	configs map[string]BucketConfig
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLocalLimiter builds an in-process limiter for the given per-key bucket configs.
func NewLocalLimiter(configs map[string]BucketConfig) *LocalLimiter {
	if configs == nil {
		configs = map[string]BucketConfig{}
	}
	return &LocalLimiter{configs: configs, buckets: map[string]*bucket{}, now: time.Now}
}

// Allow implements Limiter. It never returns an error.
func (l *LocalLimiter) Allow(_ context.Context, key string, cost int64) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, ok := l.configs[key]
	if !ok || !cfg.enabled() {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(cfg.Capacity), lastRefill: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = min(float64(cfg.Capacity), b.tokens+elapsed*cfg.RefillRate)
	}
	b.lastRefill = now

	if b.tokens >= float64(cost) {
		b.tokens -= float64(cost)
		return true, 0, nil
	}
	wait := (float64(cost) - b.tokens) / cfg.RefillRate
	return false, time.Duration(wait * float64(time.Second)), nil
}
