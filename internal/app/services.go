package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	rediscache "github.com/fairyhunter13/resume-screener/internal/adapter/cache/redis"
	"github.com/fairyhunter13/resume-screener/internal/adapter/repo/memory"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/resume"
	"github.com/fairyhunter13/resume-screener/internal/usecase"
)

// BuildParser creates the field extractor with the heuristics file and
// context radius from cfg applied.
func BuildParser(cfg config.Config) (*resume.Parser, error) {
	h, err := cfg.LoadHeuristics()
	if err != nil {
		return nil, fmt.Errorf("op=app.BuildParser: %w", err)
	}
	return resume.NewParser(resume.Options{
		Skills:        h.Skills,
		ContextBefore: h.ContextBefore,
		ContextAfter:  h.ContextAfter,
	}), nil
}

// OpenRedis connects to REDIS_URL. It returns a nil client when Redis is not
// configured.
func OpenRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	rdb, err := rediscache.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("op=app.OpenRedis: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=app.OpenRedis: ping: %w", err)
	}
	slog.Info("redis connected", slog.String("addr", rdb.Options().Addr))
	return rdb, nil
}

// Services bundles the use cases shared by the HTTP server and the CLI.
type Services struct {
	Screen     usecase.ScreenService
	Candidates usecase.CandidateService
	Repo       *memory.CandidateRepo
}

// BuildServices wires the screening pipeline over an in-memory candidate store.
func BuildServices(cfg config.Config, rdb *redis.Client) (Services, error) {
	parser, err := BuildParser(cfg)
	if err != nil {
		return Services{}, err
	}
	repo := memory.NewCandidateRepo()
	matcher := usecase.NewMatcher(BuildScoringClient(cfg, rdb))
	return Services{
		Screen:     usecase.NewScreenService(parser, matcher, repo, cfg.BatchConcurrency),
		Candidates: usecase.NewCandidateService(repo),
		Repo:       repo,
	}, nil
}
