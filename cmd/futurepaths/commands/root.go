package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dreytengan/futurepaths/internal/config"
)

// app carries the global flags and what PersistentPreRunE derives from them.
type app struct {
	configPath   string
	overridePath string
	verbose      bool

	cfg    *config.AppConfig
	logger *slog.Logger
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "futurepaths",
		Short: "Career path suggestions from a job-description label space",
		Long: `futurepaths suggests next roles from a career history.

A label space of job descriptions is embedded once (build-index). An
optional linear transformation maps history embeddings towards job
embeddings (train-linear). Suggestions are served from the terminal
(suggest, tui) or over HTTP (serve).

Typical flow:
  futurepaths build-index
  futurepaths train-linear
  futurepaths --override configs/linear.yaml evaluate
  futurepaths suggest "Marketing Intern, Marketing Specialist"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./config.yaml, then ~/.config/futurepaths/config.yaml)")
	root.PersistentFlags().StringVar(&a.overridePath, "override", "", "method-specific config merged over --config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newBuildIndexCmd(a),
		newTrainLinearCmd(a),
		newEvaluateCmd(a),
		newSuggestCmd(a),
		newTUICmd(a),
		newServeCmd(a),
		newParseResumeCmd(a),
		newPairsCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	level := parseLevel(cfg.LogLevel)
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) loadConfig() (*config.AppConfig, error) {
	switch {
	case a.overridePath != "":
		base := a.configPath
		if base == "" {
			base = "config.yaml"
		}
		return config.LoadMerged(base, a.overridePath)
	case a.configPath != "":
		return config.Load(a.configPath)
	default:
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
