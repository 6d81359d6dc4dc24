package main

import (
	"github.com/spf13/cobra"

	"github.com/rokumeals/grubgraph/internal/core"
)

var (
	flagDataDir        string
	flagBatchSize      int
	flagClear          bool
	flagSkipSimilarity bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the dataset into the graph and derive similarity edges",
	Long: `Run the full import pipeline: ensure uniqueness constraints, upsert
category, ingredient and recipe nodes, merge the three relationship
kinds, derive SIMILAR_TO edges, then build secondary indexes.

Re-running is safe: nodes and edges are merged by identifier, so an
import over existing data updates in place without duplicating.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "directory containing the source CSV files (overrides config)")
	importCmd.Flags().IntVar(&flagBatchSize, "batch-size", 0, "rows per write batch (overrides config)")
	importCmd.Flags().BoolVar(&flagClear, "clear", false, "clear existing graph data before import")
	importCmd.Flags().BoolVar(&flagSkipSimilarity, "skip-similarity", false, "skip the similarity derivation stage")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.Data.Dir = flagDataDir
	}
	if flagBatchSize > 0 {
		cfg.Load.BatchSize = flagBatchSize
	}

	ctx := cmd.Context()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	pipeline := core.NewPipeline(d, cfg, log)
	_, err = pipeline.Run(ctx, core.Options{
		Clear:          flagClear,
		SkipSimilarity: flagSkipSimilarity,
	})
	return err
}
