package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/config"
	"github.com/abhisek/drillz/internal/store"
	"github.com/abhisek/drillz/internal/topic"
	"github.com/abhisek/drillz/topics"
)

var rootCmd = &cobra.Command{
	Use:   "drillz [topic]",
	Short: "Timed topic trainer for the terminal",
	Long: `drillz renders a timed round of randomly selected problems from a topic
file, checks your answers and exports the round as PDF or XLSX.

Topics are YAML files named <topic>.yaml, looked up in the topics directory
and then in the built-in set (see "drillz topics").`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("topic", "", "Topic to train (overrides DRILLZ_TOPIC env var)")
	pf.String("topics-dir", "", "Directory with <topic>.yaml files (overrides DRILLZ_TOPICS_DIR env var)")
	pf.String("db", "", "Path to SQLite history database (overrides DRILLZ_DB env var)")
	pf.String("env-file", ".env", "dotenv file loaded before reading DRILLZ_* variables")

	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the dotenv file named by --env-file and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dotenv, _ := cmd.Flags().GetString("env-file")
	return config.Load(dotenv)
}

// resolveTopic returns the topic name: the positional argument, then
// --topic, then DRILLZ_TOPIC.
func resolveTopic(cmd *cobra.Command, args []string, cfg config.Config) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	if t, _ := cmd.Flags().GetString("topic"); t != "" {
		return t
	}
	return cfg.Topic
}

// newLoader searches the topics directory first, then the built-in topics.
func newLoader(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) *topic.Loader {
	dir, _ := cmd.Flags().GetString("topics-dir")
	if dir == "" {
		dir = cfg.TopicsDir
	}
	return topic.NewLoader(
		topic.WithDir(dir),
		topic.WithFS(topics.FS),
		topic.WithVersion(version),
		topic.WithLogger(logger),
	)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DRILLZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the history database.
func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
