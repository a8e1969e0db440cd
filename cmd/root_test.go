package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--env-file", "", "--topics-dir", t.TempDir()))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPrintCommand(t *testing.T) {
	t.Setenv("DRILLZ_SEED", "3")
	out := t.TempDir()

	stdout, err := execute(t, "print", "arithmetic", "--format", "xlsx", "--out", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "Mental_Arithmetic.xlsx"))
	assert.Contains(t, stdout, "4 problems")

	_, err = execute(t, "print", "capitals", "--format", "pdf", "--out", out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "European_Capitals.pdf"))
}

func TestPrintCommand_Errors(t *testing.T) {
	out := t.TempDir()

	_, err := execute(t, "print", "arithmetic", "--format", "docx", "--out", out)
	assert.ErrorContains(t, err, "invalid format")

	_, err = execute(t, "print", "nope", "--format", "pdf", "--out", out)
	assert.ErrorContains(t, err, "not found")
}

func TestTopicsCommand(t *testing.T) {
	stdout, err := execute(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, stdout, "arithmetic")
	assert.Contains(t, stdout, "European Capitals")
	assert.Contains(t, stdout, "05:00")
	assert.Contains(t, stdout, "3 topics")
}

func TestHistoryCommand_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "h.db")
	stdout, err := execute(t, "history", "--db", db, "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No rounds yet.")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "drillz (devel)")
}
