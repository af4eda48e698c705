// Package ai holds decorators around domain.ScoringClient: circuit breaking,
// response caching and response cleanup. Provider clients live in subpackages.
package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

// MemoryCache is a bounded in-process domain.ResponseCache with FIFO eviction.
// It is safe for concurrent use.
type MemoryCache struct {
	capacity int
	mu       sync.RWMutex
	m        map[string]string
	ord      []string
}

// NewMemoryCache returns a cache holding at most capacity entries (minimum 1).
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryCache{capacity: capacity, m: make(map[string]string), ord: make([]string, 0, capacity)}
}

// Get implements domain.ResponseCache.
func (c *MemoryCache) Get(_ domain.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok, nil
}

// Set implements domain.ResponseCache.
func (c *MemoryCache) Set(_ domain.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = value
		return nil
	}
	if len(c.ord) >= c.capacity {
		old := c.ord[0]
		c.ord = c.ord[1:]
		delete(c.m, old)
	}
	c.m[key] = value
	c.ord = append(c.ord, key)
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

type cacheClient struct {
	base  domain.ScoringClient
	cache domain.ResponseCache
}

// WithCache serves repeated prompts from cache. Cache errors are logged and
// treated as misses; only successful responses are stored.
func WithCache(base domain.ScoringClient, cache domain.ResponseCache) domain.ScoringClient {
	if base == nil || cache == nil {
		return base
	}
	return &cacheClient{base: base, cache: cache}
}

func (c *cacheClient) Complete(ctx domain.Context, prompt string) (string, error) {
	lg := observability.LoggerFromContext(ctx)
	key := CacheKey(c.base.Provider(), prompt)

	v, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		lg.Warn("score cache get failed", "error", err)
	}
	if ok {
		observability.CacheLookup(true)
		if t := domain.ScoreTraceFrom(ctx); t != nil {
			t.CacheHit = true
		}
		lg.Debug("score cache hit", "key", key[:12])
		return v, nil
	}
	observability.CacheLookup(false)

	out, err := c.base.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, out); err != nil {
		lg.Warn("score cache set failed", "error", err)
	}
	return out, nil
}

func (c *cacheClient) Provider() string { return c.base.Provider() }

// CacheKey hashes the provider name and trimmed prompt.
func CacheKey(provider, prompt string) string {
	h := sha256.Sum256([]byte(provider + "\x00" + strings.TrimSpace(prompt)))
	return hex.EncodeToString(h[:])
}
