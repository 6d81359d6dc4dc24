package loader

import (
	"context"
	"errors"
	"io"

	"github.com/rokumeals/grubgraph/internal/core/model"
	"github.com/rokumeals/grubgraph/internal/driver"
	"github.com/rokumeals/grubgraph/internal/source"
	"github.com/rokumeals/grubgraph/internal/types"
)

// LoadRecipes upserts one Recipe node per source row.
func (l *Loader) LoadRecipes(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadEntities(ctx, r, driver.UpsertRecipesQuery, func(row source.Row) (map[string]any, error) {
		rec, err := source.DecodeRecipe(row)
		if err != nil {
			return nil, err
		}
		return rec.Params(), nil
	})
}

// LoadIngredients upserts one Ingredient node per source row.
func (l *Loader) LoadIngredients(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadEntities(ctx, r, driver.UpsertIngredientsQuery, func(row source.Row) (map[string]any, error) {
		ing, err := source.DecodeIngredient(row)
		if err != nil {
			return nil, err
		}
		return ing.Params(), nil
	})
}

// LoadCategories upserts one Category node per source row.
func (l *Loader) LoadCategories(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadEntities(ctx, r, driver.UpsertCategoriesQuery, func(row source.Row) (map[string]any, error) {
		cat, err := source.DecodeCategory(row)
		if err != nil {
			return nil, err
		}
		return cat.Params(), nil
	})
}

// loadEntities streams rows, rejecting malformed ones and flushing
// bounded batches through the upsert query. A rejected row is counted
// and logged, never silently dropped; a store failure aborts the load.
func (l *Loader) loadEntities(ctx context.Context, r *source.Reader, query string, decode func(source.Row) (map[string]any, error)) (model.LoadStats, error) {
	stats := model.LoadStats{Source: r.Name()}
	batch := make([]map[string]any, 0, l.BatchSize)

	flush := func() error {
		n, err := l.writeBatch(ctx, query, batch, "upserted")
		if err != nil {
			return err
		}
		stats.Upserted += n
		batch = batch[:0]
		return nil
	}

	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if types.CodeOf(err) == types.MALFORMED_ROW {
				stats.Attempted++
				stats.Rejected++
				l.Log.Debug().Err(err).Str("source", r.Name()).Msg("rejected unparseable row")
				continue
			}
			return stats, err
		}

		stats.Attempted++
		params, err := decode(row)
		if err != nil {
			stats.Rejected++
			l.Log.Debug().Err(err).Str("source", r.Name()).Int("line", row.Line).Msg("rejected row")
			continue
		}

		batch = append(batch, params)
		if len(batch) >= l.BatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	l.Log.Info().
		Str("source", r.Name()).
		Int("attempted", stats.Attempted).
		Int("upserted", stats.Upserted).
		Int("rejected", stats.Rejected).
		Msg("entity load complete")
	return stats, nil
}
