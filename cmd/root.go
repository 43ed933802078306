package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/logging"
	"github.com/salesinsight/salesinsight/internal/pipeline"
)

var (
	cfgFile     string
	logLevel    string
	dataDir     string
	withQuality bool
	runAll      bool
	churnWindow int
	version     = "dev"
	commit      = "none"
	date        = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "salesinsight",
	Short: "salesinsight: descriptive sales analytics over the Northwind dataset",
	Long: `salesinsight loads the Northwind tables (CSV, PostgreSQL, Oracle or MongoDB),
derives per-line sales totals and prints a Portuguese report covering products,
seasonality, geography, cross-selling, customer behaviour and churn.

Running without a subcommand prints the full report to stdout.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, closeLog, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		opts.Out = os.Stdout
		opts.Quality = withQuality
		opts.All = runAll
		_, err = pipeline.Run(ctx, opts)
		return err
	},
}

func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.salesinsight/salesinsight.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the CSV tables (overrides source.directory)")
	rootCmd.PersistentFlags().IntVar(&churnWindow, "churn-window", 0, "days without orders before a customer counts as churned")
	rootCmd.Flags().BoolVar(&withQuality, "quality", false, "print the data-quality report before the analyses")
	rootCmd.Flags().BoolVar(&runAll, "all", false, "also run the product status analysis")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Source.Type = "csv"
		cfg.Source.Directory = config.ExpandHome(dataDir)
	}
	if flags.Changed("churn-window") {
		cfg.Analysis.ChurnWindowDays = churnWindow
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildOptions prepares pipeline options shared by the report commands.
// The returned func closes the log file, if any.
func buildOptions(cmd *cobra.Command) (pipeline.Options, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return pipeline.Options{}, nil, err
	}

	logger, closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Directory)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	closeLog := func() {
		if err := closer(); err != nil {
			slog.Warn("closing log file", "error", err)
		}
	}

	return pipeline.Options{Config: cfg, Logger: logger}, closeLog, nil
}
