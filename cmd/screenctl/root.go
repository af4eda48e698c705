package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resume-screener/internal/config"
)

const appName = "screenctl"

var (
	debug bool

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "screenctl parses resumes and scores them against a job description",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output on stderr")
}

// setup loads the environment configuration and installs a stderr logger so
// stdout only carries JSON results.
func setup(stderr io.Writer) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).With(slog.String("app", appName)))
	return cfg, nil
}
