// Package usecase contains application business logic services.
package usecase

import (
	"errors"
	"log/slog"
	"time"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/scoring"
)

// Fallback reasons reported in logs and the fallback counter.
const (
	reasonDisabled    = "disabled"
	reasonCircuitOpen = "circuit_open"
	reasonRateLimit   = "rate_limit"
	reasonTimeout     = "timeout"
	reasonUpstream    = "upstream"
	reasonEmpty       = "empty_response"
)

var errEmptyResponse = errors.New("empty response")

// Matcher scores a parsed resume against a job description. Client may be
// nil, in which case every request is scored by the fallback scorer.
type Matcher struct {
	Client domain.ScoringClient
}

// NewMatcher constructs a Matcher around an optional scoring client.
func NewMatcher(c domain.ScoringClient) Matcher { return Matcher{Client: c} }

// Match builds the prompt, asks the scoring client, falls back to the
// rule-based scorer on any failure and normalizes the answer. It never fails.
func (m Matcher) Match(ctx domain.Context, r domain.ParsedResume, jobDescription string) (domain.MatchResult, domain.ScoreSource) {
	prompt := scoring.BuildPrompt(r, jobDescription)
	response, source := m.complete(ctx, prompt)
	return scoring.Normalize(response), source
}

func (m Matcher) complete(ctx domain.Context, prompt string) (string, domain.ScoreSource) {
	lg := observability.LoggerFromContext(ctx)
	if m.Client == nil {
		observability.RecordFallback(reasonDisabled)
		return scoring.FallbackResponse(prompt), domain.ScoreSourceFallback
	}

	ctx, trace := domain.WithScoreTrace(ctx)
	start := time.Now()
	response, err := m.Client.Complete(ctx, prompt)
	if err == nil && response == "" {
		err = errEmptyResponse
	}
	if err != nil {
		reason := fallbackReason(err)
		lg.Warn("scoring service failed, using fallback scorer",
			slog.String("provider", m.Client.Provider()),
			slog.String("reason", reason),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		observability.RecordFallback(reason)
		return scoring.FallbackResponse(prompt), domain.ScoreSourceFallback
	}
	if trace.CacheHit {
		return response, domain.ScoreSourceCache
	}
	return response, domain.ScoreSourceLLM
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCircuitOpen):
		return reasonCircuitOpen
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return reasonRateLimit
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return reasonTimeout
	case errors.Is(err, domain.ErrUpstream):
		return reasonUpstream
	case errors.Is(err, errEmptyResponse):
		return reasonEmpty
	default:
		return reasonUpstream
	}
}
