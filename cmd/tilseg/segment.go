package main

import (
	"fmt"

	"tilseg/internal/batch"
	"tilseg/internal/cluster"
	"tilseg/internal/config"
	"tilseg/internal/logging"
	"tilseg/internal/patch"
	"tilseg/internal/results"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	fitPatch string
	inDir    string
	outDir   string
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Segment every patch in a directory",
	Long: `Fit a KMeans model on one patch, then segment every image in the input
directory with it. Each patch gets its own subdirectory of the output
directory; a run.json manifest summarizes the run.

Examples:
  tilseg segment --fit-patch fit.tif --in patches --out results
  tilseg segment --fit-patch fit.tif --in patches --out results --clusters 6 --plot`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		model, err := fitModel(fitPatch, cfg, logger)
		if err != nil {
			return err
		}

		writer := results.NewWriter(cfg.Output, logger)
		runner := batch.NewRunner(model, cfg.Filter, writer, logger)
		m, err := runner.Run(cmd.Context(), inDir, outDir)
		if m != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d segmented, %d failed\n", m.RunID, m.Succeeded(), m.Failed())
		}
		return err
	},
}

func init() {
	d := config.Default()
	f := segmentCmd.Flags()
	f.StringVar(&fitPatch, "fit-patch", "", "patch used to fit the clustering model")
	f.StringVar(&inDir, "in", "", "directory of patches to segment")
	f.StringVar(&outDir, "out", "", "existing directory for results")
	f.Int("clusters", d.Clustering.Clusters, "number of KMeans clusters (1-8)")
	f.Int("seed", d.Clustering.Seed, "random seed for KMeans initialization")
	f.Float64("min-area", d.Filter.MinArea, "minimum TIL contour area in pixels (exclusive)")
	f.Float64("max-area", d.Filter.MaxArea, "maximum TIL contour area in pixels (exclusive)")
	f.Float64("max-roundness", d.Filter.MaxRoundness, "maximum TIL contour roundness (exclusive)")
	f.Bool("overlays", d.Output.Overlays, "write per-cluster overlay images")
	f.Bool("masks", d.Output.Masks, "write per-cluster mask images")
	f.Bool("csv", d.Output.CSV, "write Compiled_Data.csv")
	f.Bool("plot", d.Output.Plot, "write a contour count bar chart")
	_ = segmentCmd.MarkFlagRequired("fit-patch")
	_ = segmentCmd.MarkFlagRequired("in")
	_ = segmentCmd.MarkFlagRequired("out")
}

// fitModel loads path and fits a clustering model on it.
func fitModel(path string, cfg *config.Config, logger zerolog.Logger) (*cluster.Model, error) {
	log := logging.Component(logger, "cluster")

	p, err := patch.Load(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	model, err := cluster.Fit(p.Mat, cfg.Clustering)
	if err != nil {
		return nil, fmt.Errorf("failed to fit model on %s: %w", path, err)
	}
	log.Info().
		Str("patch", p.Name).
		Int("clusters", model.K()).
		Float64("compactness", model.Compactness).
		Msg("model fitted")
	return model, nil
}
