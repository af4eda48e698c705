package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, ProviderGroq, cfg.LLMProvider)
	assert.Equal(t, 100, cfg.ExtractContextBefore)
	assert.Equal(t, 200, cfg.ExtractContextAfter)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func Test_Load_ProviderNormalized(t *testing.T) {
	t.Setenv("LLM_PROVIDER", " Ollama ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
	assert.True(t, cfg.LLMEnabled())
}

func Test_Load_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.Load")
}

func Test_LLMEnabled(t *testing.T) {
	assert.False(t, Config{LLMProvider: ProviderGroq}.LLMEnabled(), "groq without key falls back")
	assert.True(t, Config{LLMProvider: ProviderGroq, GroqAPIKey: "k"}.LLMEnabled())
	assert.False(t, Config{LLMProvider: ProviderNone, GroqAPIKey: "k"}.LLMEnabled())
}

func Test_GetLLMBackoffConfig_TestEnvIsShort(t *testing.T) {
	cfg := Config{AppEnv: "test", LLMBackoffMaxElapsedTime: time.Minute}
	maxElapsed, initial, _, _ := cfg.GetLLMBackoffConfig()
	assert.Equal(t, 2*time.Second, maxElapsed)
	assert.Equal(t, 50*time.Millisecond, initial)

	cfg.AppEnv = "prod"
	maxElapsed, _, _, _ = cfg.GetLLMBackoffConfig()
	assert.Equal(t, time.Minute, maxElapsed)
}

func Test_LoadHeuristics_NoFile(t *testing.T) {
	h, err := Config{ExtractContextBefore: 50, ExtractContextAfter: 80}.LoadHeuristics()
	require.NoError(t, err)
	assert.Equal(t, 50, h.ContextBefore)
	assert.Equal(t, 80, h.ContextAfter)
	assert.Empty(t, h.Skills)
}

func Test_LoadHeuristics_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [go, rust]\ncontext_after: 300\n"), 0o600))

	h, err := Config{HeuristicsFile: path, ExtractContextBefore: 100, ExtractContextAfter: 200}.LoadHeuristics()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, h.Skills)
	assert.Equal(t, 100, h.ContextBefore)
	assert.Equal(t, 300, h.ContextAfter)
}

func Test_LoadHeuristics_Errors(t *testing.T) {
	_, err := Config{HeuristicsFile: "non-existent-file.yaml"}.LoadHeuristics()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heuristics file not found")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [go"), 0o600))
	_, err = Config{HeuristicsFile: path}.LoadHeuristics()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	neg := filepath.Join(t.TempDir(), "neg.yaml")
	require.NoError(t, os.WriteFile(neg, []byte("context_before: -1\n"), 0o600))
	_, err = Config{HeuristicsFile: neg}.LoadHeuristics()
	require.Error(t, err)
}
