// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// LLM providers understood by the scoring client factory.
const (
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8000"`
	// LLMProvider selects the external scoring service: groq, ollama or none.
	// With "none" every request is scored by the rule-based fallback.
	LLMProvider     string  `env:"LLM_PROVIDER" envDefault:"groq"`
	GroqAPIKey      string  `env:"GROQ_API_KEY"`
	GroqBaseURL     string  `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel       string  `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	GroqTemperature float64 `env:"GROQ_TEMPERATURE" envDefault:"0.3"`
	GroqMaxTokens   int     `env:"GROQ_MAX_TOKENS" envDefault:"800"`
	OllamaURL       string  `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel     string  `env:"OLLAMA_MODEL" envDefault:"llama2"`
	// LLMTimeout bounds a single HTTP call to the scoring service.
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	// LLM Backoff Configuration
	LLMBackoffMaxElapsedTime  time.Duration `env:"LLM_BACKOFF_MAX_ELAPSED_TIME" envDefault:"45s"`
	LLMBackoffInitialInterval time.Duration `env:"LLM_BACKOFF_INITIAL_INTERVAL" envDefault:"1s"`
	LLMBackoffMaxInterval     time.Duration `env:"LLM_BACKOFF_MAX_INTERVAL" envDefault:"10s"`
	LLMBackoffMultiplier      float64       `env:"LLM_BACKOFF_MULTIPLIER" envDefault:"1.5"`
	// Circuit breaker in front of the scoring service
	LLMBreakerMaxFailures int           `env:"LLM_BREAKER_MAX_FAILURES" envDefault:"3"`
	LLMBreakerCooldown    time.Duration `env:"LLM_BREAKER_COOLDOWN" envDefault:"30s"`
	// LLMRatePerMin throttles outbound scoring calls; 0 disables the limiter.
	LLMRatePerMin int `env:"LLM_RATE_PER_MIN" envDefault:"30"`
	// RedisURL enables the shared response cache; empty keeps it in-process.
	RedisURL       string        `env:"REDIS_URL"`
	ScoreCacheTTL  time.Duration `env:"SCORE_CACHE_TTL" envDefault:"24h"`
	ScoreCacheSize int           `env:"SCORE_CACHE_SIZE" envDefault:"512"`
	// HeuristicsFile optionally points to a YAML file overriding extractor tuning.
	HeuristicsFile       string `env:"HEURISTICS_FILE"`
	ExtractContextBefore int    `env:"EXTRACT_CONTEXT_BEFORE" envDefault:"100"`
	ExtractContextAfter  int    `env:"EXTRACT_CONTEXT_AFTER" envDefault:"200"`
	// Batch screening
	BatchConcurrency int `env:"BATCH_CONCURRENCY" envDefault:"4"`
	BatchMaxFiles    int `env:"BATCH_MAX_FILES" envDefault:"50"`
	// HTTP
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	// Observability
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"resume-screener"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch cfg.LLMProvider {
	case ProviderGroq, ProviderOllama, ProviderNone:
	default:
		return Config{}, fmt.Errorf("op=config.Load: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// LLMEnabled reports whether an external scoring service is configured.
// Groq additionally needs an API key; without one requests go straight to the fallback.
func (c Config) LLMEnabled() bool {
	switch c.LLMProvider {
	case ProviderGroq:
		return c.GroqAPIKey != ""
	case ProviderOllama:
		return c.OllamaURL != ""
	default:
		return false
	}
}

// GetLLMBackoffConfig returns backoff configuration appropriate for the current environment.
// In test environments, uses much shorter timeouts for faster test execution.
func (c Config) GetLLMBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.LLMBackoffMaxElapsedTime, c.LLMBackoffInitialInterval, c.LLMBackoffMaxInterval, c.LLMBackoffMultiplier
}
