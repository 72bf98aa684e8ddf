package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/config"
)

func writeBank(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runValidate(t *testing.T, path string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	validateCmd.SetOut(&out)
	t.Cleanup(func() { validateCmd.SetOut(nil) })
	err := validateCmd.RunE(validateCmd, []string{path})
	return out.String(), err
}

func TestValidate_CleanBank(t *testing.T) {
	path := writeBank(t, `[{"question":"2+2?","options":["3","4"],"answer":"4","explanation":"Add."}]`)

	out, err := runValidate(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 questions, no issues")
}

func TestValidate_ReportsIssues(t *testing.T) {
	path := writeBank(t, `[
		{"question":"2+2?","options":["3","4"],"answer":"5","explanation":""},
		{"question":"2+2?","options":["4","4"],"answer":"4","explanation":""}
	]`)

	out, err := runValidate(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 questions")
	assert.Contains(t, out, `answer "5" is not one of the options`)
	assert.Contains(t, out, "same question text as item 1")
}

func TestValidate_SchemaViolation(t *testing.T) {
	path := writeBank(t, `[{"question":"2+2?","options":["4"],"answer":"4","explanation":"","extra":1}]`)

	_, err := runValidate(t, path)
	assert.Error(t, err)
}

func TestApplySessionFlags(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	addSessionFlags(c)
	require.NoError(t, c.Flags().Parse([]string{"--timer", "5", "--no-revisit", "--shuffle-options", "--seed", "42"}))

	cfg := config.Load()
	cfg.TrackElapsedTime = true
	require.NoError(t, applySessionFlags(c, cfg))

	assert.Equal(t, 5, cfg.TimerSeconds)
	assert.False(t, cfg.AllowRevisit)
	assert.True(t, cfg.ShuffleOptions)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.TrackElapsedTime, "unset flags keep the configured value")
}

func TestApplySessionFlags_RejectsBadTimer(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	addSessionFlags(c)
	require.NoError(t, c.Flags().Parse([]string{"--timer", "0"}))

	assert.Error(t, applySessionFlags(c, config.Load()))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "1:05", formatDuration(65_400_000_000))
	assert.Equal(t, "12:00", formatDuration(720_000_000_000))
}
