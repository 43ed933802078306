package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/aws"
	"github.com/salesinsight/salesinsight/internal/export"
	"github.com/salesinsight/salesinsight/internal/pipeline"
)

var (
	exportFormat  string
	exportOut     string
	exportQuality bool
	exportAll     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the analyses and write the results to a file",
	Long: `Run the full pipeline without printing the report and write every result table
to an Excel workbook (one sheet per table) or a JSON document. An --out of the form
s3://bucket/key uploads the file to S3 using the aws.profile and aws.region settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if !slices.Contains(export.Formats, format) {
			return fmt.Errorf("unsupported format %q (expected one of %s)", exportFormat, strings.Join(export.Formats, ", "))
		}
		out := exportOut
		if out == "" {
			out = "salesinsight-report." + format
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts, closeLog, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		opts.Quality = exportQuality
		opts.All = exportAll
		res, err := pipeline.Run(ctx, opts)
		if err != nil {
			return err
		}

		if !aws.IsS3URI(out) {
			if err := export.Write(res, format, out); err != nil {
				return fmt.Errorf("exporting results: %w", err)
			}
			opts.Logger.Info("results exported", "run_id", res.RunID, "format", format, "path", out)
			fmt.Printf("Results written to %s\n", out)
			return nil
		}

		tmp, err := os.MkdirTemp("", "salesinsight-export-")
		if err != nil {
			return fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(tmp)

		local := filepath.Join(tmp, path.Base(out))
		if err := export.Write(res, format, local); err != nil {
			return fmt.Errorf("exporting results: %w", err)
		}

		client, err := aws.NewSDKClient(ctx, opts.Config.AWS.Profile, opts.Config.AWS.Region)
		if err != nil {
			return err
		}
		if err := aws.NewPublisher(client, opts.Logger).Publish(ctx, local, out, res.RunID); err != nil {
			return fmt.Errorf("publishing export: %w", err)
		}
		fmt.Printf("Results uploaded to %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format (xlsx, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file or s3://bucket/key (default: salesinsight-report.<format>)")
	exportCmd.Flags().BoolVar(&exportQuality, "quality", false, "include the data-quality tables")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "include the product status analysis")
	rootCmd.AddCommand(exportCmd)
}
