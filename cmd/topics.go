package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/logging"
	"github.com/abhisek/drillz/internal/session"
	"github.com/abhisek/drillz/internal/topic"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List available topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closeLog, err := logging.Open(cfg.Log, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer closeLog()

		loader := newLoader(cmd, cfg, logger)
		names, err := loader.List()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(w, "No topics found.")
			return nil
		}

		fmt.Fprintf(w, "%-20s  %-30s  %5s  %8s\n", "Topic", "Title", "Tasks", "Time")
		fmt.Fprintln(w, strings.Repeat("─", 69))

		for _, name := range names {
			m, err := loader.Load(cmd.Context(), name)
			if err != nil {
				var mf *topic.MalformedError
				if errors.As(err, &mf) {
					fmt.Fprintf(w, "%-20s  malformed: %v\n", name, mf.Err)
					continue
				}
				return err
			}
			title := m.Settings.DisplayTitle()
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			fmt.Fprintf(w, "%-20s  %-30s  %5d  %8s\n",
				name, title, len(m.Tasks), session.FormatClock(m.Settings.TotalTime))
		}

		fmt.Fprintf(w, "\n%d topics\n", len(names))
		return nil
	},
}
