package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rokumeals/grubgraph/internal/driver"
)

// RecipeDoc is the export shape consumed by the external embedding
// generator: the text fields plus the names of connected ingredients
// and categories, which give the generator context the title alone
// lacks.
type RecipeDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Categories  []string `json:"categories"`
}

type IngredientDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type CategoryDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ExportCounts reports how many documents each export wrote.
type ExportCounts struct {
	Recipes     int `json:"recipes"`
	Ingredients int `json:"ingredients"`
	Categories  int `json:"categories"`
}

// Exporter writes entity documents as JSON files for external embedding
// generation. It only reads the graph.
type Exporter struct {
	Driver driver.GraphDriver
	Log    zerolog.Logger
}

// Export writes the selected kinds ("" means all) under outputDir.
// A positive limit caps recipes and ingredients; categories are few
// enough to always export whole.
func (e *Exporter) Export(ctx context.Context, outputDir, kind string, limit int) (ExportCounts, error) {
	var counts ExportCounts
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return counts, fmt.Errorf("cannot create output dir %s: %w", outputDir, err)
	}

	if kind == "" || kind == "recipe" {
		docs, err := e.exportRecipes(ctx, limit)
		if err != nil {
			return counts, err
		}
		if err := writeJSON(filepath.Join(outputDir, "recipes.json"), docs); err != nil {
			return counts, err
		}
		counts.Recipes = len(docs)
	}

	if kind == "" || kind == "ingredient" {
		docs, err := e.exportIngredients(ctx, limit)
		if err != nil {
			return counts, err
		}
		if err := writeJSON(filepath.Join(outputDir, "ingredients.json"), docs); err != nil {
			return counts, err
		}
		counts.Ingredients = len(docs)
	}

	if kind == "" || kind == "category" {
		docs, err := e.exportCategories(ctx)
		if err != nil {
			return counts, err
		}
		if err := writeJSON(filepath.Join(outputDir, "categories.json"), docs); err != nil {
			return counts, err
		}
		counts.Categories = len(docs)
	}

	e.Log.Info().
		Int("recipes", counts.Recipes).
		Int("ingredients", counts.Ingredients).
		Int("categories", counts.Categories).
		Str("dir", outputDir).
		Msg("embedding export complete")
	return counts, nil
}

func (e *Exporter) exportRecipes(ctx context.Context, limit int) ([]RecipeDoc, error) {
	query := driver.ExportRecipesQuery
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	res, err := e.Driver.ExecuteQuery(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	docs := make([]RecipeDoc, 0, len(res.Records))
	for _, rec := range res.Records {
		docs = append(docs, RecipeDoc{
			ID:          driver.RecordString(rec, "id"),
			Title:       driver.RecordString(rec, "title"),
			Description: driver.RecordString(rec, "description"),
			Ingredients: driver.RecordStrings(rec, "ingredients"),
			Categories:  driver.RecordStrings(rec, "categories"),
		})
	}
	return docs, nil
}

func (e *Exporter) exportIngredients(ctx context.Context, limit int) ([]IngredientDoc, error) {
	query := driver.ExportIngredientsQuery
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	res, err := e.Driver.ExecuteQuery(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	docs := make([]IngredientDoc, 0, len(res.Records))
	for _, rec := range res.Records {
		docs = append(docs, IngredientDoc{
			ID:       driver.RecordString(rec, "id"),
			Name:     driver.RecordString(rec, "name"),
			Category: driver.RecordString(rec, "category"),
		})
	}
	return docs, nil
}

func (e *Exporter) exportCategories(ctx context.Context) ([]CategoryDoc, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.ExportCategoriesQuery, nil)
	if err != nil {
		return nil, err
	}
	docs := make([]CategoryDoc, 0, len(res.Records))
	for _, rec := range res.Records {
		docs = append(docs, CategoryDoc{
			ID:   driver.RecordString(rec, "id"),
			Name: driver.RecordString(rec, "name"),
			Type: driver.RecordString(rec, "type"),
		})
	}
	return docs, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
