package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/resume-screener/internal/app"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Extract structured fields from resumes without scoring",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		parser, err := app.BuildParser(cfg)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		for _, path := range args {
			data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			out := map[string]any{
				"filename":    filepath.Base(path),
				"parsed_data": parser.ParseDocument(path, data),
			}
			if err := enc.Encode(out); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
