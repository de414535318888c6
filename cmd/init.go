package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/dayplan/internal/clierr"
	"github.com/twiced-technology-gmbh/dayplan/internal/config"
	"github.com/twiced-technology-gmbh/dayplan/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the dayplan directory",
	Long:  `Creates the dayplan directory with a default config.yml.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("api-base", "", "store base URL to write into the config")
	initCmd.Flags().String("collection", "", "store collection name")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.InvalidInput, "dayplan already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := config.NewDefault()
	cfg.SetDir(absDir)
	if v, _ := cmd.Flags().GetString("api-base"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("collection"); v != "" {
		cfg.API.Collection = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":     "initialized",
			"dir":        absDir,
			"config":     cfg.ConfigPath(),
			"base_url":   cfg.API.BaseURL,
			"collection": cfg.API.Collection,
		})
	}

	output.Messagef(os.Stdout, "Initialized dayplan in %s", absDir)
	output.Messagef(os.Stdout, "  Config:     %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Store:      %s/%s", cfg.API.BaseURL, cfg.API.Collection)
	output.Messagef(os.Stdout, "  Hint:       Create an account with: dayplan register")
	return nil
}
