package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-screener/internal/config"
)

// RedisPinger is the minimal Redis surface needed for readiness.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// BuildReadinessChecks returns the scoring service and Redis checks. A check
// is nil when its dependency is not configured, so /readyz skips it.
func BuildReadinessChecks(cfg config.Config, rdb RedisPinger) (llmCheck, redisCheck func(ctx context.Context) error) {
	if rdb != nil {
		redisCheck = rdb.Ping
	}
	if !cfg.LLMEnabled() {
		return nil, redisCheck
	}
	client := &http.Client{Timeout: 2 * time.Second}
	llmCheck = func(ctx context.Context) error {
		var url string
		header := http.Header{}
		switch cfg.LLMProvider {
		case config.ProviderGroq:
			url = strings.TrimRight(cfg.GroqBaseURL, "/") + "/models"
			header.Set("Authorization", "Bearer "+cfg.GroqAPIKey)
		case config.ProviderOllama:
			url = strings.TrimRight(cfg.OllamaURL, "/") + "/api/tags"
		default:
			return fmt.Errorf("unknown provider %q", cfg.LLMProvider)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header = header
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("%s status %d", cfg.LLMProvider, resp.StatusCode)
	}
	return llmCheck, redisCheck
}
