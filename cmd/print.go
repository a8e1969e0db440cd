package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/export"
	"github.com/abhisek/drillz/internal/logging"
	"github.com/abhisek/drillz/internal/session"
)

var printCmd = &cobra.Command{
	Use:   "print [topic]",
	Short: "Write a worksheet for one round without starting the trainer",
	Long: `Sample one round of a topic and write it as a PDF or XLSX worksheet.

Answers are left as "no answer"; correct answers are filled in so the sheet
doubles as an answer key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	printCmd.Flags().String("format", "pdf", "Output format: pdf or xlsx")
	printCmd.Flags().String("out", "", "Output directory (overrides DRILLZ_EXPORT_DIR env var)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(cfg.Log, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pdf" && format != "xlsx" {
		return fmt.Errorf("invalid format %q: must be pdf or xlsx", format)
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.ExportDir
	}

	name := resolveTopic(cmd, args, cfg)
	m, err := newLoader(cmd, cfg, logger).Load(cmd.Context(), name)
	if err != nil {
		return err
	}

	var opts []session.Option
	opts = append(opts, session.WithLogger(logger))
	if cfg.Seed != 0 {
		opts = append(opts, session.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}
	sess := session.New(m, opts...)
	sess.NewRound()
	sess.Countdown().Stop()

	rep := export.FromSession(sess, time.Now())

	var path string
	switch format {
	case "pdf":
		var warning *export.FontWarning
		path, warning, err = export.PDFExporter{FontPath: cfg.PDFFont}.Save(out, rep)
		if warning != nil {
			fmt.Fprintln(os.Stderr, "Warning:", warning)
		}
	case "xlsx":
		path, err = export.XLSXExporter{}.Save(out, rep)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d problems from %q)\n", path, len(rep.Items), rep.Title)
	return nil
}
