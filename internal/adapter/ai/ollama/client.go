// Package ollama implements domain.ScoringClient against a local Ollama
// server using the non-streaming generate endpoint.
package ollama

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/resume-screener/internal/adapter/ai"
	"github.com/fairyhunter13/resume-screener/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

const provider = "ollama"

type Client struct {
	cfg        config.Config
	hc         *http.Client
	newBackoff func() backoff.BackOff
}

func New(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		hc:         ai.NewHTTPClient(cfg.LLMTimeout),
		newBackoff: func() backoff.BackOff { return ai.NewBackoff(cfg) },
	}
}

func (c *Client) Provider() string { return provider }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete runs prompt through /api/generate.
func (c *Client) Complete(ctx domain.Context, prompt string) (string, error) {
	var out generateResponse
	err := ai.PostJSON(ctx, c.hc, c.newBackoff(), ai.Request{
		Provider: provider,
		URL:      strings.TrimRight(c.cfg.OllamaURL, "/") + "/api/generate",
		Body:     generateRequest{Model: c.cfg.OllamaModel, Prompt: prompt},
	}, &out)
	if err != nil {
		return "", fmt.Errorf("op=ollama.Complete: %w", err)
	}

	promptTokens, completionTokens := out.PromptEvalCount, out.EvalCount
	if promptTokens == 0 {
		promptTokens, _ = tokencount.CountTokensDefault(prompt, c.cfg.OllamaModel)
	}
	observability.AddLLMTokens(provider, promptTokens, completionTokens)
	observability.LoggerFromContext(ctx).Info("ollama call successful",
		slog.String("model", c.cfg.OllamaModel),
		slog.Int("prompt_tokens", promptTokens),
		slog.Int("completion_tokens", completionTokens))
	return out.Response, nil
}
