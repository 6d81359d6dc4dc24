package core

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rokumeals/grubgraph/internal/config"
	"github.com/rokumeals/grubgraph/internal/core/loader"
	"github.com/rokumeals/grubgraph/internal/core/model"
	"github.com/rokumeals/grubgraph/internal/core/similarity"
	"github.com/rokumeals/grubgraph/internal/driver"
	"github.com/rokumeals/grubgraph/internal/source"
)

// Pipeline orchestrates the import as a strict stage chain:
// constraints -> entity loads -> relationship loads -> similarity
// derivation -> secondary indexes. Each stage must fully commit before
// the next starts; an edge load depends on every endpoint node being
// present, and the derivation must never observe a partially written
// CONTAINS set.
type Pipeline struct {
	Driver driver.GraphDriver
	Config *config.Config
	Log    zerolog.Logger

	loader *loader.Loader
	engine *similarity.Engine
}

// Options tweaks a single run without touching the config.
type Options struct {
	Clear          bool
	SkipSimilarity bool
}

func NewPipeline(d driver.GraphDriver, cfg *config.Config, log zerolog.Logger) *Pipeline {
	retry := loader.RetryPolicy{
		Attempts:   cfg.Load.RetryAttempts,
		MaxBackoff: time.Duration(cfg.Load.MaxBackoffSec) * time.Second,
	}
	return &Pipeline{
		Driver: d,
		Config: cfg,
		Log:    log,
		loader: loader.New(d, cfg.Load.BatchSize, retry, log),
		engine: similarity.NewEngine(d, cfg.Similarity.Threshold, cfg.Load.BatchSize, log),
	}
}

// Run executes the full import. Row-level data problems are counted in
// the summary and never abort the run; a store failure that survives
// the retry policy aborts the current stage and the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.RunSummary, error) {
	summary := &model.RunSummary{RunID: uuid.New().String(), StartedAt: time.Now().UTC()}
	log := p.Log.With().Str("run_id", summary.RunID).Logger()

	if opts.Clear {
		if err := p.Clear(ctx); err != nil {
			return summary, err
		}
	}

	log.Info().Msg("stage: uniqueness constraints")
	if err := p.Driver.EnsureConstraints(ctx); err != nil {
		return summary, err
	}

	// Node kinds load in dependency-free order; categories first keeps
	// parity with the original import sequence.
	entityStages := []struct {
		file string
		load func(context.Context, *source.Reader) (model.LoadStats, error)
	}{
		{p.Config.Data.Categories, p.loader.LoadCategories},
		{p.Config.Data.Ingredients, p.loader.LoadIngredients},
		{p.Config.Data.Recipes, p.loader.LoadRecipes},
	}
	for _, stage := range entityStages {
		if err := p.runLoad(ctx, stage.file, stage.load, summary); err != nil {
			return summary, err
		}
	}

	// Relationship loads run only after every node kind is committed.
	edgeStages := []struct {
		file string
		load func(context.Context, *source.Reader) (model.LoadStats, error)
	}{
		{p.Config.Data.RecipeCategoryEdges, p.loader.LoadBelongsTo},
		{p.Config.Data.IngredientCategoryEdges, p.loader.LoadClassifiedAs},
		{p.Config.Data.RecipeIngredientEdges, p.loader.LoadContains},
	}
	for _, stage := range edgeStages {
		if err := p.runLoad(ctx, stage.file, stage.load, summary); err != nil {
			return summary, err
		}
	}

	if !opts.SkipSimilarity {
		log.Info().Msg("stage: similarity derivation")
		simStats, err := p.engine.Run(ctx)
		if err != nil {
			return summary, err
		}
		summary.Similarity = simStats
	}

	log.Info().Msg("stage: secondary indexes")
	if err := p.Driver.BuildIndexes(ctx); err != nil {
		return summary, err
	}

	summary.FinishedAt = time.Now().UTC()
	p.logSummary(log, summary)
	return summary, nil
}

// DeriveSimilarity reruns only the derivation pass, for use after the
// CONTAINS set has changed.
func (p *Pipeline) DeriveSimilarity(ctx context.Context) (model.SimilarityStats, error) {
	return p.engine.Run(ctx)
}

// Clear removes every relationship, then every node. Relationship-first
// order avoids orphaned-edge failures on delete.
func (p *Pipeline) Clear(ctx context.Context) error {
	p.Log.Info().Msg("clearing existing graph")
	if _, err := p.Driver.ExecuteQuery(ctx, driver.ClearRelationshipsQuery, nil); err != nil {
		return err
	}
	if _, err := p.Driver.ExecuteQuery(ctx, driver.ClearNodesQuery, nil); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) runLoad(ctx context.Context, file string, load func(context.Context, *source.Reader) (model.LoadStats, error), summary *model.RunSummary) error {
	path := filepath.Join(p.Config.Data.Dir, file)
	r, err := source.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	stats, err := load(ctx, r)
	summary.Record(stats)
	return err
}

// logSummary emits the end-of-run report. Every rejected or unresolved
// row appears here so an operator can assess data-quality impact.
func (p *Pipeline) logSummary(log zerolog.Logger, s *model.RunSummary) {
	for _, src := range s.Sources {
		log.Info().
			Str("source", src.Source).
			Int("attempted", src.Attempted).
			Int("upserted", src.Upserted).
			Int("rejected", src.Rejected).
			Int("unresolved", src.Unresolved).
			Msg("source summary")
	}
	log.Info().
		Int("total_rejected", s.TotalRejected()).
		Int("total_unresolved", s.TotalUnresolved()).
		Int("similar_to_edges", s.Similarity.EdgesWritten).
		Dur("elapsed", s.FinishedAt.Sub(s.StartedAt)).
		Msg("import complete")
}
