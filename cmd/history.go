package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/session"
	"github.com/abhisek/drillz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.NoHistory {
			return errors.New("history is disabled (DRILLZ_NO_HISTORY)")
		}

		topicName, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("invalid limit %d", limit)
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		rounds, err := st.RoundRepo().Recent(cmd.Context(), store.QueryOpts{Topic: topicName, Limit: limit})
		if err != nil {
			return fmt.Errorf("query rounds: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(rounds) == 0 {
			fmt.Fprintln(w, "No rounds yet.")
			return nil
		}

		fmt.Fprintf(w, "%-16s  %-16s  %-24s  %7s  %6s  %s\n",
			"Finished", "Topic", "Title", "Score", "Time", "Ended by")
		fmt.Fprintln(w, strings.Repeat("─", 90))

		var correct, total int
		for _, r := range rounds {
			secs := int(r.FinishedAt.Sub(r.StartedAt).Seconds())
			fmt.Fprintf(w, "%-16s  %-16s  %-24s  %7s  %6s  %s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Topic, r.Title,
				fmt.Sprintf("%d/%d", r.Correct, r.Total), session.FormatClock(secs), r.Reason)
			correct += r.Correct
			total += r.Total
		}

		res := session.Result{Correct: correct, Total: total}
		fmt.Fprintf(w, "\n%d rounds, %d of %d correct (%.0f%%)\n",
			len(rounds), correct, total, res.Accuracy()*100)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of rounds to show (0 = all)")
}
