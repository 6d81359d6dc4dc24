package similarity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rokumeals/grubgraph/internal/core/model"
	"github.com/rokumeals/grubgraph/internal/driver"
)

// Engine runs a full derivation pass against the graph store: fetch all
// CONTAINS pairs, compute the similarity edge set in memory, drop every
// previously derived SIMILAR_TO edge, then write the new set. Dropping
// before writing makes the pass idempotent: stale edges from an earlier
// CONTAINS state can never survive a recompute.
type Engine struct {
	Driver    driver.GraphDriver
	Threshold int
	BatchSize int
	Log       zerolog.Logger
}

func NewEngine(d driver.GraphDriver, threshold, batchSize int, log zerolog.Logger) *Engine {
	if threshold < 1 {
		threshold = 3
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Engine{Driver: d, Threshold: threshold, BatchSize: batchSize, Log: log}
}

func (e *Engine) Run(ctx context.Context) (model.SimilarityStats, error) {
	stats := model.SimilarityStats{Threshold: e.Threshold}

	contains, err := e.fetchContains(ctx)
	if err != nil {
		return stats, err
	}
	stats.ContainsEdges = len(contains)

	edges, pairs := Derive(contains, e.Threshold)
	stats.PairsCounted = pairs

	dropped, err := e.dropDerived(ctx)
	if err != nil {
		return stats, err
	}
	stats.EdgesDropped = dropped

	written, err := e.writeDerived(ctx, edges)
	if err != nil {
		return stats, err
	}
	stats.EdgesWritten = written

	e.Log.Info().
		Int("contains_edges", stats.ContainsEdges).
		Int("pairs_counted", stats.PairsCounted).
		Int("edges_dropped", stats.EdgesDropped).
		Int("edges_written", stats.EdgesWritten).
		Int("threshold", stats.Threshold).
		Msg("similarity derivation complete")
	return stats, nil
}

func (e *Engine) fetchContains(ctx context.Context) ([]model.ContainsEdge, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.FetchContainsQuery, nil)
	if err != nil {
		return nil, err
	}
	edges := make([]model.ContainsEdge, 0, len(res.Records))
	for _, rec := range res.Records {
		edges = append(edges, model.ContainsEdge{
			RecipeID:     driver.RecordString(rec, "recipe_id"),
			IngredientID: driver.RecordString(rec, "ingredient_id"),
		})
	}
	return edges, nil
}

func (e *Engine) dropDerived(ctx context.Context) (int, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.DeleteSimilarToQuery, nil)
	if err != nil {
		return 0, err
	}
	return driver.SingleInt(res, "deleted"), nil
}

func (e *Engine) writeDerived(ctx context.Context, edges []model.SimilarToEdge) (int, error) {
	written := 0
	for start := 0; start < len(edges); start += e.BatchSize {
		end := start + e.BatchSize
		if end > len(edges) {
			end = len(edges)
		}
		rows := make([]map[string]any, 0, end-start)
		for _, edge := range edges[start:end] {
			rows = append(rows, edge.Params())
		}
		res, err := e.Driver.ExecuteQuery(ctx, driver.MergeSimilarToQuery, map[string]any{"rows": rows})
		if err != nil {
			return written, err
		}
		written += driver.SingleInt(res, "resolved")
	}
	return written, nil
}
