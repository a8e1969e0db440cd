package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "topics", cfg.TopicsDir)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 500, cfg.HistoryKeep)
	assert.False(t, cfg.NoHistory)
	assert.Zero(t, cfg.Seed)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DRILLZ_TOPIC", "fractions")
	t.Setenv("DRILLZ_SEED", "42")
	t.Setenv("DRILLZ_NO_HISTORY", "true")
	t.Setenv("DRILLZ_PDF_FONT", "/fonts/PTSerif-Regular.ttf")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "fractions", cfg.Topic)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.NoHistory)
	assert.Equal(t, "/fonts/PTSerif-Regular.ttf", cfg.PDFFont)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	data := "DRILLZ_TOPIC=capitals\nDRILLZ_EXPORT_DIR=/tmp/out\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("DRILLZ_TOPIC", "arithmetic")
	// godotenv sets variables on the process; restore them after the test.
	t.Setenv("DRILLZ_EXPORT_DIR", "")
	os.Unsetenv("DRILLZ_EXPORT_DIR")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "arithmetic", cfg.Topic)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
}

func TestLoad_MissingDotenv(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("DRILLZ_HISTORY_KEEP", "lots")

	_, err := Load("")
	assert.ErrorContains(t, err, "parse environment")
}
