package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/pipeline"
)

var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Write the table catalog as YAML",
	Long: `Write the tables and columns the loader expects to a YAML file. Edit it and point
source.catalog at it to read a dataset with renamed or extra tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := pipeline.Catalog(cfg)
		if err != nil {
			return err
		}

		if err := catalog.WriteYAML(catalogOutput); err != nil {
			return fmt.Errorf("writing catalog: %w", err)
		}
		fmt.Printf("Catalog with %d tables written to %s\n", len(catalog.Tables), catalogOutput)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogOutput, "out", "o", "catalog.yaml", "output file")
	rootCmd.AddCommand(catalogCmd)
}
