package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of scoring service requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Scoring service request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)
	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Estimated tokens sent to and received from the scoring service",
		},
		[]string{"provider", "kind"},
	)
	LLMCircuitOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "llm_circuit_open",
			Help: "1 while the circuit breaker in front of the scoring service is open",
		},
		[]string{"provider"},
	)

	ScoreCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_total",
			Help: "Scoring response cache lookups by result",
		},
		[]string{"result"},
	)
	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_fallback_total",
			Help: "Requests answered by the rule-based fallback scorer, by reason",
		},
		[]string{"reason"},
	)

	ScreeningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_total",
			Help: "Total number of resumes screened by score source",
		},
		[]string{"source"},
	)
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screening_match_score",
			Help:    "Distribution of overall match scores ([1,10])",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			LLMCircuitOpen,
			ScoreCacheTotal,
			FallbackTotal,
			ScreeningsTotal,
			MatchScoreHistogram,
		)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveLLMRequest records one scoring service call.
func ObserveLLMRequest(provider, outcome string, dur time.Duration) {
	LLMRequestsTotal.WithLabelValues(provider, outcome).Inc()
	LLMRequestDuration.WithLabelValues(provider).Observe(dur.Seconds())
}

// AddLLMTokens adds token estimates for one call.
func AddLLMTokens(provider string, prompt, completion int) {
	LLMTokensTotal.WithLabelValues(provider, "prompt").Add(float64(prompt))
	LLMTokensTotal.WithLabelValues(provider, "completion").Add(float64(completion))
}

// SetCircuitOpen flips the breaker gauge for provider.
func SetCircuitOpen(provider string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	LLMCircuitOpen.WithLabelValues(provider).Set(v)
}

// CacheLookup counts a hit or miss of the scoring response cache.
func CacheLookup(hit bool) {
	if hit {
		ScoreCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ScoreCacheTotal.WithLabelValues("miss").Inc()
}

// RecordFallback counts a request answered by the fallback scorer.
func RecordFallback(reason string) {
	FallbackTotal.WithLabelValues(reason).Inc()
}

// ObserveScreening records the outcome of a completed screening.
func ObserveScreening(source string, score int) {
	ScreeningsTotal.WithLabelValues(source).Inc()
	if score >= 1 && score <= 10 {
		MatchScoreHistogram.Observe(float64(score))
	}
}
