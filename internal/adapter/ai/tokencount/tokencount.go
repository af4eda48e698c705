// Package tokencount estimates prompt and completion token counts for
// scoring service calls with tiktoken-go.
//
// The Llama family served by Groq and Ollama has no tiktoken encoding of its
// own; cl100k_base is close enough for usage metrics. When the encoding
// cannot be loaded (it is fetched on first use) counts fall back to a
// four-characters-per-token estimate.
package tokencount

import (
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenUsage represents token counts for a scoring call.
type TokenUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// Counter provides thread-safe token counting. The encoding is loaded once.
type Counter struct {
	load func() (*tiktoken.Tiktoken, error)
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a counter using the cl100k_base encoding.
func NewCounter() *Counter {
	return &Counter{load: func() (*tiktoken.Tiktoken, error) { return tiktoken.GetEncoding(defaultEncoding) }}
}

// DefaultCounter is shared by the scoring clients.
var DefaultCounter = NewCounter()

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		c.enc, c.err = c.load()
		if c.err != nil {
			slog.Warn("tiktoken encoding unavailable, estimating token counts", slog.Any("error", c.err))
		}
	})
	return c.enc, c.err
}

// CountTokens counts the tokens of text. The model only labels logs; all
// supported models share one encoding.
func (c *Counter) CountTokens(text, _ string) (int, error) {
	enc, err := c.encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountChatTokens counts a system plus user message request, including the
// per-message overhead of OpenAI-compatible chat APIs.
func (c *Counter) CountChatTokens(systemPrompt, userPrompt, model string) (int, error) {
	const (
		tokensPerMessage = 3
		tokensPerRole    = 1
		replyPriming     = 3
	)
	n := replyPriming
	for _, m := range [][2]string{{"system", systemPrompt}, {"user", userPrompt}} {
		role, err := c.CountTokens(m[0], model)
		if err != nil {
			return 0, err
		}
		content, err := c.CountTokens(m[1], model)
		if err != nil {
			return 0, err
		}
		n += tokensPerMessage + tokensPerRole + role + content
	}
	return n, nil
}

// CalculateUsage returns token usage for one chat call, estimating from
// character counts when the encoding is unavailable.
func (c *Counter) CalculateUsage(systemPrompt, userPrompt, completion, model, provider string) TokenUsage {
	promptTokens, err := c.CountChatTokens(systemPrompt, userPrompt, model)
	if err != nil {
		promptTokens = Estimate(systemPrompt + userPrompt)
	}
	completionTokens, err := c.CountTokens(completion, model)
	if err != nil {
		completionTokens = Estimate(completion)
	}
	return TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Model:            model,
		Provider:         provider,
	}
}

// Estimate approximates a token count as one token per four bytes.
func Estimate(text string) int {
	return len(text) / 4
}

// CountTokensDefault counts with DefaultCounter, estimating on failure.
func CountTokensDefault(text, model string) (int, error) {
	n, err := DefaultCounter.CountTokens(text, model)
	if err != nil {
		return Estimate(text), nil
	}
	return n, nil
}
