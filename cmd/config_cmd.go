package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salesinsight/salesinsight/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View, validate and create the salesinsight configuration file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current config (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Println("Current configuration:")
		fmt.Println()
		fmt.Printf("  Source:\n")
		fmt.Printf("    Type:           %s\n", cfg.Source.Type)
		if cfg.Source.Type == "csv" {
			fmt.Printf("    Directory:      %s\n", cfg.Source.Directory)
			fmt.Printf("    Delimiter:      %q\n", cfg.Source.Delimiter)
		} else {
			fmt.Printf("    Connection:     %s\n", maskSecret(cfg.Source.ConnectionString))
			fmt.Printf("    Database:       %s\n", cfg.Source.Database)
			fmt.Printf("    Schema:         %s\n", cfg.Source.Schema)
		}
		catalog := cfg.Source.Catalog
		if catalog == "" {
			catalog = "(built-in Northwind)"
		}
		fmt.Printf("    Catalog:        %s\n", catalog)
		fmt.Println()
		fmt.Printf("  Analysis:\n")
		fmt.Printf("    Churn window:   %d days\n", cfg.Analysis.ChurnWindowDays)
		fmt.Printf("    Top N:          %d\n", cfg.Analysis.TopN)
		fmt.Println()
		fmt.Printf("  Logging:\n")
		fmt.Printf("    Level:          %s\n", cfg.Logging.Level)
		if cfg.Logging.Directory != "" {
			fmt.Printf("    Directory:      %s\n", cfg.Logging.Directory)
		}
		if cfg.AWS.Profile != "" || cfg.AWS.Region != "" {
			fmt.Println()
			fmt.Printf("  AWS:\n")
			fmt.Printf("    Profile:        %s\n", cfg.AWS.Profile)
			fmt.Printf("    Region:         %s\n", cfg.AWS.Region)
		}

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}
		fmt.Println("Configuration is valid.")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.ExpandHome(config.DefaultPath)
		}

		if !configInitForce {
			_, err := os.Stat(path)
			if err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking config file: %w", err)
			}
		}

		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Config written to %s\n", path)
		return nil
	},
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
