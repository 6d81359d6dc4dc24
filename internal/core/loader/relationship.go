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

// LoadContains merges Recipe-[:CONTAINS]->Ingredient edges. Must run
// after both recipe and ingredient loads have committed.
func (l *Loader) LoadContains(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadRelationships(ctx, r, driver.MergeContainsQuery, func(row source.Row) (map[string]any, error) {
		e, err := source.DecodeContains(row)
		if err != nil {
			return nil, err
		}
		return e.Params(), nil
	})
}

// LoadBelongsTo merges Recipe-[:BELONGS_TO]->Category edges.
func (l *Loader) LoadBelongsTo(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadRelationships(ctx, r, driver.MergeBelongsToQuery, func(row source.Row) (map[string]any, error) {
		e, err := source.DecodeBelongsTo(row)
		if err != nil {
			return nil, err
		}
		return e.Params(), nil
	})
}

// LoadClassifiedAs merges Ingredient-[:CLASSIFIED_AS]->Category edges.
func (l *Loader) LoadClassifiedAs(ctx context.Context, r *source.Reader) (model.LoadStats, error) {
	return l.loadRelationships(ctx, r, driver.MergeClassifiedAsQuery, func(row source.Row) (map[string]any, error) {
		e, err := source.DecodeClassifiedAs(row)
		if err != nil {
			return nil, err
		}
		return e.Params(), nil
	})
}

// loadRelationships streams edge rows and merges them in batches. The
// merge query resolves both endpoints by identifier; rows whose
// endpoints are absent fall out of the UNWIND stream, so the difference
// between the batch size and the returned count is the number of
// unresolved references. Those are expected given upstream data
// cleaning and are counted, not fatal.
func (l *Loader) loadRelationships(ctx context.Context, r *source.Reader, query string, decode func(source.Row) (map[string]any, error)) (model.LoadStats, error) {
	stats := model.LoadStats{Source: r.Name()}
	batch := make([]map[string]any, 0, l.BatchSize)

	flush := func() error {
		size := len(batch)
		resolved, err := l.writeBatch(ctx, query, batch, "resolved")
		if err != nil {
			return err
		}
		stats.Upserted += resolved
		if skipped := size - resolved; skipped > 0 {
			stats.Unresolved += skipped
			l.Log.Debug().Str("source", r.Name()).Int("unresolved", skipped).Msg("edge rows referenced absent nodes")
		}
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
			l.Log.Debug().Err(err).Str("source", r.Name()).Int("line", row.Line).Msg("rejected edge row")
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
		Int("merged", stats.Upserted).
		Int("rejected", stats.Rejected).
		Int("unresolved", stats.Unresolved).
		Msg("relationship load complete")
	return stats, nil
}
