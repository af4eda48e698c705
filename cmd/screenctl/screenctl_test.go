package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeText = `Jane Doe
jane.doe@example.com

Skills
Python, Docker, SQL

Experience
Senior Engineer at Acme 2017 - present leading a team
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	jobFile, jobText, minScore, offline = "", "", 0, false
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestScoreCommand_Offline(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "none")
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", "Senior Python developer with Docker")
	cv := writeFile(t, dir, "jane.txt", resumeText)
	bad := writeFile(t, dir, "notes.docx", "nope")

	stdout, stderr, err := run(t, "score", "--offline", "--job", job, cv, bad)
	require.NoError(t, err)
	assert.Contains(t, stderr, "notes.docx")

	var out struct {
		Candidates []struct {
			Filename   string `json:"filename"`
			MatchScore int    `json:"match_score"`
			ScoredBy   string `json:"scored_by"`
			ParsedData struct {
				Name string `json:"name"`
			} `json:"parsed_data"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Candidates, 1)
	assert.Equal(t, "jane.txt", out.Candidates[0].Filename)
	assert.Equal(t, "fallback", out.Candidates[0].ScoredBy)
	assert.Equal(t, "Jane Doe", out.Candidates[0].ParsedData.Name)
	assert.GreaterOrEqual(t, out.Candidates[0].MatchScore, 1)
}

func TestScoreCommand_Errors(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "none")
	dir := t.TempDir()
	cv := writeFile(t, dir, "jane.txt", resumeText)

	_, _, err := run(t, "score", cv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--job")

	bad := writeFile(t, dir, "cv.docx", resumeText)
	_, _, err = run(t, "score", "--job-text", "Python", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resume could be screened")
}

func TestParseCommand(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "none")
	cv := writeFile(t, t.TempDir(), "jane.txt", resumeText)

	stdout, _, err := run(t, "parse", cv)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "Jane Doe"`)
	assert.Contains(t, stdout, `"email": "jane.doe@example.com"`)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "screenctl version: unknown\n", stdout)
}
