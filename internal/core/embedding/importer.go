package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rokumeals/grubgraph/internal/driver"
)

// Vector is one externally generated embedding keyed by entity kind and
// identifier.
type Vector struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Embedding []float64 `json:"embedding"`
}

// ImportCounts reports the outcome of one embedding import.
type ImportCounts struct {
	Updated int  `json:"updated"`
	Skipped int  `json:"skipped"`
	DryRun  bool `json:"dry_run"`
}

// Importer attaches externally generated vectors to existing nodes. It
// never creates nodes: a vector whose entity is absent is skipped and
// counted, so the import cannot corrupt or duplicate the graph.
type Importer struct {
	Driver driver.GraphDriver
	Log    zerolog.Logger
}

// ImportFile reads a JSON array of vectors and attaches each to its
// node. With dryRun set it only checks which vectors would resolve.
func (im *Importer) ImportFile(ctx context.Context, path string, dryRun bool) (ImportCounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportCounts{}, fmt.Errorf("cannot read embedding file %s: %w", path, err)
	}

	var vectors []Vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return ImportCounts{}, fmt.Errorf("cannot parse embedding file %s: %w", path, err)
	}

	return im.Import(ctx, vectors, dryRun)
}

func (im *Importer) Import(ctx context.Context, vectors []Vector, dryRun bool) (ImportCounts, error) {
	counts := ImportCounts{DryRun: dryRun}

	for _, v := range vectors {
		query, checkQuery, ok := queriesFor(v.Type)
		if !ok {
			counts.Skipped++
			im.Log.Debug().Str("type", v.Type).Str("id", v.ID).Msg("unknown entity kind, skipping vector")
			continue
		}
		if v.ID == "" || len(v.Embedding) == 0 {
			counts.Skipped++
			continue
		}

		if dryRun {
			res, err := im.Driver.ExecuteQuery(ctx, checkQuery, map[string]any{"id": v.ID})
			if err != nil {
				return counts, err
			}
			if driver.SingleInt(res, "found") > 0 {
				counts.Updated++
			} else {
				counts.Skipped++
			}
			continue
		}

		res, err := im.Driver.ExecuteQuery(ctx, query, map[string]any{"id": v.ID, "embedding": v.Embedding})
		if err != nil {
			return counts, err
		}
		if driver.SingleInt(res, "updated") > 0 {
			counts.Updated++
		} else {
			counts.Skipped++
		}
	}

	im.Log.Info().
		Int("updated", counts.Updated).
		Int("skipped", counts.Skipped).
		Bool("dry_run", dryRun).
		Msg("embedding import complete")
	return counts, nil
}

func queriesFor(kind string) (attach, check string, ok bool) {
	switch kind {
	case "recipe":
		return driver.AttachRecipeEmbeddingQuery, driver.ExistsRecipeQuery, true
	case "ingredient":
		return driver.AttachIngredientEmbeddingQuery, driver.ExistsIngredientQuery, true
	case "category":
		return driver.AttachCategoryEmbeddingQuery, driver.ExistsCategoryQuery, true
	}
	return "", "", false
}
