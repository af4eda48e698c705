package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

const errorSnippetLen = 512

// StatusError is a non-2xx answer from a scoring service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// NewHTTPClient returns an HTTP client with an otel transport and the
// configured per-call timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewBackoff builds the retry policy for scoring calls from cfg.
func NewBackoff(cfg config.Config) *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime, expo.InitialInterval, expo.MaxInterval, expo.Multiplier = cfg.GetLLMBackoffConfig()
	return expo
}

// Request describes one JSON POST to a scoring service.
type Request struct {
	Provider string
	URL      string
	Header   http.Header
	Body     any
}

// PostJSON posts req.Body and decodes the answer into out. 429 and 5xx
// answers and transport errors are retried with bo; other 4xx answers are
// not. The returned error wraps one of the domain upstream sentinels.
func PostJSON(ctx context.Context, hc *http.Client, bo backoff.BackOff, req Request, out any) error {
	lg := observability.LoggerFromContext(ctx)
	payload, err := json.Marshal(req.Body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", domain.ErrInternal, err)
	}

	op := func() error {
		start := time.Now()
		// rebuilt each attempt so the body reader is fresh
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		r.Header.Set("Content-Type", "application/json")

		resp, err := hc.Do(r)
		if err != nil {
			observability.ObserveLLMRequest(req.Provider, "error", time.Since(start))
			lg.Warn("scoring service request failed", slog.String("provider", req.Provider), slog.Any("error", err))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		observability.ObserveLLMRequest(req.Provider, http.StatusText(resp.StatusCode), time.Since(start))
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet := string(body)
			if len(snippet) > errorSnippetLen {
				snippet = snippet[:errorSnippetLen]
			}
			se := &StatusError{Code: resp.StatusCode, Body: snippet}
			lg.Warn("scoring service non-2xx",
				slog.String("provider", req.Provider),
				slog.Int("status", resp.StatusCode),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(se)
			}
			return se
		}
		if err := json.Unmarshal(body, out); err != nil {
			lg.Error("scoring service decode error", slog.String("provider", req.Provider), slog.Any("error", err))
			return backoff.Permanent(err)
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return classify(ctx, req.Provider, err)
	}
	return nil
}

func classify(ctx context.Context, provider string, err error) error {
	var se *StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err):
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamTimeout, provider, err)
	case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamRateLimit, provider, err)
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, provider, err)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
