package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/fairyhunter13/resume-screener/internal/config"
)

// SetupLogger configures a JSON slog logger carrying service and env fields.
func SetupLogger(cfg config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	// debug in dev, info elsewhere
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, opts)).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
		slog.String("llm_provider", cfg.LLMProvider),
	)
}
