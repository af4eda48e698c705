package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Heuristics tunes the resume field extractor. Zero values keep the built-in defaults.
type Heuristics struct {
	// Skills replaces the built-in skill vocabulary when non-empty.
	Skills []string `yaml:"skills"`
	// ContextBefore/ContextAfter size the text window kept around an experience date range.
	ContextBefore int `yaml:"context_before"`
	ContextAfter  int `yaml:"context_after"`
}

// LoadHeuristics reads the heuristics file named by HeuristicsFile and merges
// the context radius from the environment. A missing HeuristicsFile is not an error.
func (c Config) LoadHeuristics() (Heuristics, error) {
	h := Heuristics{ContextBefore: c.ExtractContextBefore, ContextAfter: c.ExtractContextAfter}
	if c.HeuristicsFile == "" {
		return h, nil
	}
	fromFile, err := loadHeuristicsYAML(c.HeuristicsFile)
	if err != nil {
		return Heuristics{}, err
	}
	if len(fromFile.Skills) > 0 {
		h.Skills = fromFile.Skills
	}
	if fromFile.ContextBefore > 0 {
		h.ContextBefore = fromFile.ContextBefore
	}
	if fromFile.ContextAfter > 0 {
		h.ContextAfter = fromFile.ContextAfter
	}
	return h, nil
}

func loadHeuristicsYAML(filePath string) (Heuristics, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return Heuristics{}, fmt.Errorf("failed to get absolute path: %w", err)
	}
	// #nosec G304 -- operator-supplied configuration file
	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Heuristics{}, fmt.Errorf("heuristics file not found: %s", absPath)
		}
		return Heuristics{}, fmt.Errorf("failed to read heuristics file: %w", err)
	}
	var h Heuristics
	if err := yaml.Unmarshal(content, &h); err != nil {
		return Heuristics{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if h.ContextBefore < 0 || h.ContextAfter < 0 {
		return Heuristics{}, fmt.Errorf("context radius must not be negative")
	}
	return h, nil
}
