package main

import (
	"github.com/spf13/cobra"

	"github.com/rokumeals/grubgraph/internal/core"
)

var flagThreshold int

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Recompute SIMILAR_TO edges from the current CONTAINS set",
	Long: `Drop every derived SIMILAR_TO edge and recompute the set from the
recipes' current ingredients. Run this after CONTAINS edges change;
the pass is atomic in intent (drop then rebuild) so stale edges never
survive a recompute.`,
	RunE: runSimilarity,
}

func init() {
	similarityCmd.Flags().IntVar(&flagThreshold, "threshold", 0, "minimum shared ingredients for an edge (overrides config)")
	rootCmd.AddCommand(similarityCmd)
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagThreshold > 0 {
		cfg.Similarity.Threshold = flagThreshold
	}

	ctx := cmd.Context()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	pipeline := core.NewPipeline(d, cfg, log)
	_, err = pipeline.DeriveSimilarity(ctx)
	return err
}
