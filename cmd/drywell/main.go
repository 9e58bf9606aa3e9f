// Command drywell generates drywell cell grids and writes their documents,
// CAD export, snapshots and section plots.
package main

import (
	"fmt"
	"os"

	"github.com/soypat/drywell/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	outDir     string
	verbose    bool
	scenePath  string
	systemPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "drywell",
	Short: "Drywell stormwater infiltration grid generator",
	Long: `drywell partitions the ground around a cylindrical stormwater well into
concentric rings of tube cells: an aggregate zone below the well chamber and a
below-well zone reaching down to groundwater.

Dimensions and outputs are read from a YAML configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger, err = cfg.Log.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func loadConfig() (*config.Config, error) {
	c := config.Default()
	if configPath != "" {
		var err error
		c, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	if outDir != "" {
		c.Output.Dir = outDir
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides output.dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "Read solids from a scene document instead of generating them")
	rootCmd.PersistentFlags().StringVar(&systemPath, "system", "", "Read the grid from a system document instead of generating it")

	infoCmd.Flags().Float64Slice("at", nil, "Locate the cell containing radius,elevation")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
