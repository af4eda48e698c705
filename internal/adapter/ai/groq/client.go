// Package groq implements domain.ScoringClient against the Groq
// OpenAI-compatible chat completions API.
package groq

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
	"github.com/fairyhunter13/resume-screener/internal/scoring"
)

const provider = "groq"

// Client calls Groq chat completions.
type Client struct {
	cfg        config.Config
	hc         *http.Client
	newBackoff func() backoff.BackOff
	counter    *tokencount.Counter
}

// New constructs a Groq client. It does not check the API key; callers
// decide whether the provider is enabled.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		hc:         ai.NewHTTPClient(cfg.LLMTimeout),
		newBackoff: func() backoff.BackOff { return ai.NewBackoff(cfg) },
		counter:    tokencount.DefaultCounter,
	}
}

// Provider implements domain.ScoringClient.
func (c *Client) Provider() string { return provider }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends prompt as the user message and returns the first choice.
func (c *Client) Complete(ctx domain.Context, prompt string) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}
	lg := observability.LoggerFromContext(ctx)
	body := chatRequest{
		Model: c.cfg.GroqModel,
		Messages: []chatMessage{
			{Role: "system", Content: scoring.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.GroqTemperature,
		MaxTokens:   c.cfg.GroqMaxTokens,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)

	var out chatResponse
	err := ai.PostJSON(ctx, c.hc, c.newBackoff(), ai.Request{
		Provider: provider,
		URL:      strings.TrimRight(c.cfg.GroqBaseURL, "/") + "/chat/completions",
		Header:   header,
		Body:     body,
	}, &out)
	if err != nil {
		lg.Error("groq call failed", slog.String("model", c.cfg.GroqModel), slog.Any("error", err))
		return "", fmt.Errorf("op=groq.Complete: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=groq.Complete: %w: empty choices", domain.ErrUpstream)
	}
	content := out.Choices[0].Message.Content

	promptTokens, completionTokens := c.usage(out, prompt, content)
	observability.AddLLMTokens(provider, promptTokens, completionTokens)
	lg.Info("groq call successful",
		slog.String("requested_model", c.cfg.GroqModel),
		slog.String("actual_model", out.Model),
		slog.Int("prompt_tokens", promptTokens),
		slog.Int("completion_tokens", completionTokens))
	return content, nil
}

// usage prefers the counts reported by the API and estimates otherwise.
func (c *Client) usage(out chatResponse, prompt, content string) (int, int) {
	if out.Usage != nil && out.Usage.PromptTokens > 0 {
		return out.Usage.PromptTokens, out.Usage.CompletionTokens
	}
	u := c.counter.CalculateUsage(scoring.SystemPrompt, prompt, content, c.cfg.GroqModel, provider)
	return u.PromptTokens, u.CompletionTokens
}
