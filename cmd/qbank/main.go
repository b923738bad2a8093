package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dhl1626/maogai-quiz/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg config.Config
	log *slog.Logger
}

func main() {
	a := &app{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "qbank",
		Short: "Question bank converter",
		Long: `qbank turns an exam question bank document (docx, txt, md, html,
pdf or csv) into per-chapter quiz data for the browser quiz:

  - chapters and question sections are recognized from headings
  - single choice, multiple choice, true/false and material analysis
    questions are parsed with their options and answers
  - answers are canonicalized and doubtful questions reported`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.log = newLogger(a.cfg)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.cfg.DialectPath, "dialect", a.cfg.DialectPath, "dialect YAML file (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(a.convertCmd())
	rootCmd.AddCommand(a.normalizeCmd())
	rootCmd.AddCommand(a.inspectCmd())
	rootCmd.AddCommand(a.checkCmd())
	rootCmd.AddCommand(a.dialectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Logs go to stderr so command
// output on stdout stays clean.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
