package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokumeals/grubgraph/internal/config"
)

// mockDriver records an event trace so stage ordering can be asserted.
type mockDriver struct {
	events []string
}

func (m *mockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	event := eventFor(query)
	m.events = append(m.events, event)

	if event == "similarity:fetch" {
		// Echo the CONTAINS set the fixture loads: r1 and r2 each
		// contain i1, i2 and i3.
		var records []*neo4j.Record
		for _, r := range []string{"r1", "r2"} {
			for _, i := range []string{"i1", "i2", "i3"} {
				records = append(records, &neo4j.Record{
					Keys:   []string{"recipe_id", "ingredient_id"},
					Values: []any{r, i},
				})
			}
		}
		return neo4j.EagerResult{Records: records}, nil
	}

	rows, _ := params["rows"].([]map[string]any)
	n := int64(len(rows))
	return neo4j.EagerResult{Records: []*neo4j.Record{{
		Keys:   []string{"upserted", "resolved", "deleted"},
		Values: []any{n, n, int64(0)},
	}}}, nil
}

func (m *mockDriver) EnsureConstraints(ctx context.Context) error {
	m.events = append(m.events, "constraints")
	return nil
}

func (m *mockDriver) BuildIndexes(ctx context.Context) error {
	m.events = append(m.events, "indexes")
	return nil
}

func (m *mockDriver) Close(ctx context.Context) error { return nil }

func eventFor(query string) string {
	switch {
	case strings.Contains(query, "MERGE (r:Recipe {recipe_id: row.recipe_id})"):
		return "load:recipes"
	case strings.Contains(query, "MERGE (i:Ingredient {ingredient_id: row.ingredient_id})"):
		return "load:ingredients"
	case strings.Contains(query, "MERGE (c:Category {category_id: row.category_id})"):
		return "load:categories"
	case strings.Contains(query, "MERGE (r)-[:CONTAINS]->(i)"):
		return "edges:contains"
	case strings.Contains(query, "MERGE (r)-[:BELONGS_TO]->(c)"):
		return "edges:belongs_to"
	case strings.Contains(query, "MERGE (i)-[:CLASSIFIED_AS]->(c)"):
		return "edges:classified_as"
	case strings.Contains(query, "RETURN r.recipe_id AS recipe_id"):
		return "similarity:fetch"
	case strings.Contains(query, "DELETE s"):
		return "similarity:drop"
	case strings.Contains(query, "MERGE (a)-[s:SIMILAR_TO]->(b)"):
		return "similarity:write"
	case strings.Contains(query, "MATCH ()-[r]->() DELETE r"):
		return "clear:relationships"
	case strings.Contains(query, "MATCH (n) DELETE n"):
		return "clear:nodes"
	}
	return "other"
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"categories.csv":  "category_id,name,type\nc1,Breakfast,recipe\nc2,Dairy,ingredient\n",
		"ingredients.csv": "ingredient_id,name,category,calories_per_100g,kj_per_100g\ni1,milk,Dairy,42,175\ni2,egg,Protein,155,648\ni3,flour,Grain,364,1523\n",
		"recipes.csv":     "recipe_id,title,rating,calories,protein,fat,sodium,description,directions,ingredients_raw\nr1,Pancakes,4.5,350,8,12,400,Fluffy,Mix and fry,milk; egg; flour\nr2,Crepes,4.0,280,7,9,320,Thin,Mix and fry thin,milk; egg; flour\n",
		"contains.csv":    "recipe_id,ingredient_id\nr1,i1\nr1,i2\nr1,i3\nr2,i1\nr2,i2\nr2,i3\n",
		"belongs.csv":     "recipe_id,category_id\nr1,c1\nr2,c1\n",
		"classified.csv":  "ingredient_id,category_id\ni1,c2\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Data.Recipes = "recipes.csv"
	cfg.Data.Ingredients = "ingredients.csv"
	cfg.Data.Categories = "categories.csv"
	cfg.Data.RecipeIngredientEdges = "contains.csv"
	cfg.Data.RecipeCategoryEdges = "belongs.csv"
	cfg.Data.IngredientCategoryEdges = "classified.csv"
	return cfg
}

func indexOf(events []string, name string) int {
	for i, e := range events {
		if e == name {
			return i
		}
	}
	return -1
}

func TestPipeline_StageOrdering(t *testing.T) {
	mock := &mockDriver{}
	p := NewPipeline(mock, fixtureConfig(t), zerolog.Nop())

	summary, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	events := mock.events
	ordering := []string{
		"constraints",
		"load:categories",
		"load:ingredients",
		"load:recipes",
		"edges:belongs_to",
		"edges:classified_as",
		"edges:contains",
		"similarity:fetch",
		"similarity:drop",
		"similarity:write",
		"indexes",
	}
	prev := -1
	for _, name := range ordering {
		idx := indexOf(events, name)
		require.NotEqual(t, -1, idx, "missing stage event %s in %v", name, events)
		assert.Greater(t, idx, prev, "stage %s out of order in %v", name, events)
		prev = idx
	}
}

func TestPipeline_SummaryCounts(t *testing.T) {
	mock := &mockDriver{}
	p := NewPipeline(mock, fixtureConfig(t), zerolog.Nop())

	summary, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, summary.Sources, 6)
	totalAttempted := 0
	for _, s := range summary.Sources {
		assert.Equal(t, s.Attempted, s.Upserted+s.Rejected+s.Unresolved, "row accounting must balance for %s", s.Source)
		totalAttempted += s.Attempted
	}
	assert.Equal(t, 2+3+2+6+2+1, totalAttempted)
	assert.Zero(t, summary.TotalRejected())

	// r1 and r2 share all three ingredients.
	assert.Equal(t, 1, summary.Similarity.EdgesWritten)
	assert.Equal(t, 3, summary.Similarity.Threshold)
}

func TestPipeline_SkipSimilarity(t *testing.T) {
	mock := &mockDriver{}
	p := NewPipeline(mock, fixtureConfig(t), zerolog.Nop())

	_, err := p.Run(context.Background(), Options{SkipSimilarity: true})
	require.NoError(t, err)
	assert.Equal(t, -1, indexOf(mock.events, "similarity:fetch"))
	assert.NotEqual(t, -1, indexOf(mock.events, "indexes"))
}

func TestPipeline_ClearRunsFirstAndOrdered(t *testing.T) {
	mock := &mockDriver{}
	p := NewPipeline(mock, fixtureConfig(t), zerolog.Nop())

	_, err := p.Run(context.Background(), Options{Clear: true})
	require.NoError(t, err)

	relIdx := indexOf(mock.events, "clear:relationships")
	nodeIdx := indexOf(mock.events, "clear:nodes")
	consIdx := indexOf(mock.events, "constraints")
	require.NotEqual(t, -1, relIdx)
	require.NotEqual(t, -1, nodeIdx)
	// Relationships drop before nodes, and both before any load.
	assert.Less(t, relIdx, nodeIdx)
	assert.Less(t, nodeIdx, consIdx)
}

func TestPipeline_MissingSourceFails(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Data.Recipes = "nope.csv"

	mock := &mockDriver{}
	p := NewPipeline(mock, cfg, zerolog.Nop())

	_, err := p.Run(context.Background(), Options{})
	require.Error(t, err)
}
