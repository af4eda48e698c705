package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-screener/internal/adapter/ai"
	"github.com/fairyhunter13/resume-screener/internal/adapter/ai/groq"
	"github.com/fairyhunter13/resume-screener/internal/adapter/ai/ollama"
	rediscache "github.com/fairyhunter13/resume-screener/internal/adapter/cache/redis"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/service/ratelimiter"
)

// BuildScoringClient assembles the configured scoring client:
//
//	cache -> rate limit -> circuit breaker -> response cleaning -> provider
//
// Cache hits skip the quota and the breaker. It returns nil when no provider
// is enabled, in which case the fallback scorer answers every request.
// rdb may be nil; the cache and the limiter then stay in-process.
func BuildScoringClient(cfg config.Config, rdb *redis.Client) domain.ScoringClient {
	if !cfg.LLMEnabled() {
		slog.Info("scoring service disabled, using fallback scorer", slog.String("provider", cfg.LLMProvider))
		return nil
	}

	var base domain.ScoringClient
	switch cfg.LLMProvider {
	case config.ProviderGroq:
		base = groq.New(cfg)
	case config.ProviderOllama:
		base = ollama.New(cfg)
	default:
		return nil
	}

	client := ai.WithCleaning(base)
	client = ai.WithBreaker(client, ai.NewCircuitBreaker(base.Provider(), cfg.LLMBreakerMaxFailures, cfg.LLMBreakerCooldown))
	client = ai.WithRateLimit(client, buildLimiter(cfg, base.Provider(), rdb))
	client = ai.WithCache(client, buildCache(cfg, rdb))

	slog.Info("scoring service enabled",
		slog.String("provider", base.Provider()),
		slog.Bool("shared_cache", rdb != nil),
		slog.Int("rate_per_min", cfg.LLMRatePerMin))
	return client
}

func buildLimiter(cfg config.Config, provider string, rdb *redis.Client) ratelimiter.Limiter {
	if cfg.LLMRatePerMin <= 0 {
		return nil
	}
	buckets := map[string]ratelimiter.BucketConfig{provider: ratelimiter.NewBucketConfigFromPerMinute(cfg.LLMRatePerMin)}
	if rdb != nil {
		return ratelimiter.NewRedisLuaLimiter(rdb, buckets)
	}
	return ratelimiter.NewLocalLimiter(buckets)
}

func buildCache(cfg config.Config, rdb *redis.Client) domain.ResponseCache {
	if rdb != nil {
		return rediscache.New(rdb, cfg.ScoreCacheTTL)
	}
	if cfg.ScoreCacheSize <= 0 {
		return nil
	}
	return ai.NewMemoryCache(cfg.ScoreCacheSize)
}
