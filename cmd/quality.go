package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/pipeline"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Print the data-quality report only",
	Long:  `Load every table, then print row counts and missing values per column. No analysis is run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, closeLog, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		opts.Out = os.Stdout
		_, err = pipeline.Quality(ctx, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}
