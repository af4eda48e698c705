package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

var (
	emphasis     = regexp.MustCompile(`\*\*|__`)
	bulletPrefix = regexp.MustCompile(`(?m)^[ \t]*(?:[-*#>]+[ \t]*)+`)
	scoreLabel   = regexp.MustCompile(`(?i)score\s*:?\s*\d`)
)

var refusalIndicators = []string{
	"i'm sorry", "i cannot", "i can't", "i'm unable", "i apologize",
	"i'm afraid", "as an ai",
}

// CleanResponse strips markdown decoration that models add around the
// "Label: value" lines, such as code fences, bold markers and bullets.
func CleanResponse(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = emphasis.ReplaceAllString(s, "")
	s = bulletPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// IsRefusal reports whether response declines the task instead of scoring.
// A response carrying any numeric score is never a refusal.
func IsRefusal(response string) bool {
	if strings.TrimSpace(response) == "" {
		return true
	}
	if scoreLabel.MatchString(response) {
		return false
	}
	lower := strings.ToLower(response)
	for _, indicator := range refusalIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

type cleaningClient struct {
	base domain.ScoringClient
}

// WithCleaning cleans every response of base and turns refusals and empty
// answers into domain.ErrUpstream so callers can fall back.
func WithCleaning(base domain.ScoringClient) domain.ScoringClient {
	if base == nil {
		return nil
	}
	return &cleaningClient{base: base}
}

func (c *cleaningClient) Complete(ctx domain.Context, prompt string) (string, error) {
	out, err := c.base.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if IsRefusal(out) {
		observability.LoggerFromContext(ctx).Warn("scoring service refused or returned nothing",
			"provider", c.base.Provider(), "response_len", len(out))
		return "", fmt.Errorf("%w: refusal from %s", domain.ErrUpstream, c.base.Provider())
	}
	return CleanResponse(out), nil
}

func (c *cleaningClient) Provider() string { return c.base.Provider() }
