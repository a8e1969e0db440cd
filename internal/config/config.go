// Package config reads drillz settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds settings taken from DRILLZ_* environment variables. Command
// line flags override them.
type Config struct {
	// Topic is the topic to open when none is given on the command line.
	Topic string `env:"TOPIC"`

	// TopicsDir is searched for <topic>.yaml before the built-in topics.
	TopicsDir string `env:"TOPICS_DIR" envDefault:"topics"`

	// DB is the history database path. Empty selects the XDG default.
	DB string `env:"DB"`

	// NoHistory disables the round history.
	NoHistory bool `env:"NO_HISTORY" envDefault:"false"`

	// HistoryKeep is how many rounds the history retains (0 = all).
	HistoryKeep int `env:"HISTORY_KEEP" envDefault:"500"`

	// ExportDir receives PDF and XLSX exports.
	ExportDir string `env:"EXPORT_DIR" envDefault:"."`

	// PDFFont is a UTF-8 TrueType font for PDF export.
	PDFFont string `env:"PDF_FONT"`

	// Seed fixes the random source when non-zero.
	Seed uint64 `env:"SEED"`

	// Log is the log file. Empty disables logging.
	Log string `env:"LOG"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Prefix is prepended to every variable name.
const Prefix = "DRILLZ_"

// Load reads the optional dotenv file, then parses the environment.
// Variables already set in the environment win over the file. A missing
// file is not an error.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
