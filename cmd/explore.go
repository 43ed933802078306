package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/explore"
	"github.com/salesinsight/salesinsight/internal/logging"
	"github.com/salesinsight/salesinsight/internal/pipeline"
	"github.com/salesinsight/salesinsight/internal/report"
)

var exploreAll bool

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Browse the report sections interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, closeLog, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		// stderr logging would draw over the alternate screen.
		opts.Logger = logging.Discard()
		opts.Quality = true
		opts.All = exploreAll

		return explore.Run(ctx, func(ctx context.Context) ([]report.Section, error) {
			res, err := pipeline.Run(ctx, opts)
			if err != nil {
				return nil, err
			}
			return res.Sections, nil
		})
	},
}

func init() {
	exploreCmd.Flags().BoolVar(&exploreAll, "all", false, "include the product status analysis")
	rootCmd.AddCommand(exploreCmd)
}
