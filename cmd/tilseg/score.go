package main

import (
	"fmt"

	"tilseg/internal/cluster"
	"tilseg/internal/config"
	"tilseg/internal/patch"

	"github.com/spf13/cobra"
)

var scorePatch string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a clustering of one patch",
	Long: `Fit a KMeans model on --fit-patch, label --patch (default: the fit patch)
and print the Calinski-Harabasz, Davies-Bouldin and, with --silhouette, the
silhouette score. Silhouette is quadratic in the pixel count; use it on
small patches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		model, err := fitModel(fitPatch, cfg, logger)
		if err != nil {
			return err
		}

		target := scorePatch
		if target == "" {
			target = fitPatch
		}
		p, err := patch.Load(target)
		if err != nil {
			return err
		}
		defer p.Close()

		labels, err := model.Predict(p.Mat)
		if err != nil {
			return err
		}
		scores, err := cluster.Score(p.Mat, labels, cfg.Scoring)
		if err != nil {
			return fmt.Errorf("failed to score %s: %w", p.Name, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "patch %s, %d clusters\n", p.Name, model.K())
		printScore(cmd, "silhouette", scores.Silhouette)
		printScore(cmd, "calinski_harabasz", scores.CalinskiHarabasz)
		printScore(cmd, "davies_bouldin", scores.DaviesBouldin)
		return nil
	},
}

func printScore(cmd *cobra.Command, name string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %.4f\n", name, *v)
}

func init() {
	d := config.Default()
	f := scoreCmd.Flags()
	f.StringVar(&fitPatch, "fit-patch", "", "patch used to fit the clustering model")
	f.StringVar(&scorePatch, "patch", "", "patch to score (default: the fit patch)")
	f.Int("clusters", d.Clustering.Clusters, "number of KMeans clusters (1-8)")
	f.Int("seed", d.Clustering.Seed, "random seed for KMeans initialization")
	f.Bool("silhouette", d.Scoring.Silhouette, "also compute the silhouette score")
	_ = scoreCmd.MarkFlagRequired("fit-patch")
}
