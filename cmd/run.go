package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/app"
	"github.com/abhisek/drillz/internal/logging"
	"github.com/abhisek/drillz/internal/screens/trainer"
)

// runApp reads the configuration, opens the optional history store, and
// launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(cfg.Log, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := app.Options{
		Topic:  resolveTopic(cmd, args, cfg),
		Loader: newLoader(cmd, cfg, logger),
		Seed:   cfg.Seed,
		Logger: logger,
		Trainer: trainer.Options{
			HistoryKeep: cfg.HistoryKeep,
			ExportDir:   cfg.ExportDir,
			PDFFont:     cfg.PDFFont,
		},
	}

	// History is optional; the trainer works without it.
	if !cfg.NoHistory {
		st, err := openStore(cmd, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "History not available:", err)
			logger.Warn("open history", "error", err)
		} else {
			defer st.Close()
			opts.Trainer.Rounds = st.RoundRepo()
		}
	}

	logger.Info("starting", "version", version, "topic", opts.Topic)
	return app.Run(opts)
}
