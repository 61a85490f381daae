package main

import (
	"fmt"
	"os"

	"tilseg/internal/config"
	"tilseg/internal/logging"
	"tilseg/internal/version"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgFile string

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"clusters":      "clustering.clusters",
	"seed":          "clustering.seed",
	"min-area":      "filter.min_area",
	"max-area":      "filter.max_area",
	"max-roundness": "filter.max_roundness",
	"overlays":      "output.overlays",
	"masks":         "output.masks",
	"csv":           "output.csv",
	"plot":          "output.plot",
	"silhouette":    "scoring.silhouette",
}

var rootCmd = &cobra.Command{
	Use:   "tilseg",
	Short: "Segment tumor-infiltrating lymphocytes in H&E image patches",
	Long: `tilseg clusters the pixels of H&E stained image patches by color, picks
the cluster whose contours look most like lymphocytes, and writes overlays,
masks and contour measurements for every patch.

Settings come from tilseg.yaml (./ or ~/.tilseg), TILSEG_* environment
variables and flags, later sources winning.`,
	Version:       version.Version,
	SilenceUsage: true,
}

func init() {
	d := config.Default()
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./tilseg.yaml or ~/.tilseg/tilseg.yaml)",
	)
	rootCmd.PersistentFlags().String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", d.Log.Format, "log format: console or json")

	rootCmd.AddCommand(segmentCmd, scoreCmd, configCmd, versionCmd)
}

// setup loads the effective configuration for cmd, with any of its flags
// that were set overriding file and environment values.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	v := config.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, zerolog.Nop(), fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}
