package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/app"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

var (
	jobFile  string
	jobText  string
	minScore int
	offline  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score --job FILE RESUME...",
	Short: "Score resumes against a job description and print candidates as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&jobFile, "job", "j", "", "file holding the job description")
	scoreCmd.Flags().StringVar(&jobText, "job-text", "", "job description given inline")
	scoreCmd.Flags().IntVarP(&minScore, "min-score", "m", 0, "only print candidates scoring at least this much")
	scoreCmd.Flags().BoolVar(&offline, "offline", false, "skip the scoring service and use the rule-based scorer")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if offline {
		cfg.LLMProvider = config.ProviderNone
	}
	job, err := jobDescription()
	if err != nil {
		return err
	}

	docs := make([]domain.Document, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, domain.Document{Filename: filepath.Base(path), Data: data})
	}

	ctx := observability.WithRequest(context.Background(), nil, appName)
	svcs, err := app.BuildServices(cfg, nil)
	if err != nil {
		return err
	}
	items, err := svcs.Screen.ScreenBatch(ctx, docs, job)
	if err != nil {
		return err
	}

	failed := 0
	for _, it := range items {
		if !it.Success {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", it.Filename, it.Error)
		}
	}
	candidates, err := svcs.Candidates.List(ctx, minScore)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"candidates": candidates}); err != nil {
		return err
	}
	if failed == len(items) {
		return errors.New("no resume could be screened")
	}
	return nil
}

func jobDescription() (string, error) {
	if jobText != "" {
		return jobText, nil
	}
	if jobFile == "" {
		return "", errors.New("one of --job or --job-text is required")
	}
	b, err := os.ReadFile(jobFile) // #nosec G304 -- operator-supplied path
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("job description %s is empty", jobFile)
	}
	return string(b), nil
}
