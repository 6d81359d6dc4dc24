//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokumeals/grubgraph/internal/config"
	"github.com/rokumeals/grubgraph/internal/core"
	"github.com/rokumeals/grubgraph/internal/driver"
)

// These tests run against a live Neo4j instance and wipe it. Gate them
// behind NEO4J_URI so a plain `go test ./...` never touches a store.

func connect(t *testing.T) (*driver.Neo4jDriver, *config.Config) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}

	cfg, err := config.Load("")
	require.NoError(t, err)

	d, err := driver.NewNeo4jDriver(context.Background(), cfg.Store.URI, cfg.Store.User, cfg.Store.Password, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })
	return d, cfg
}

func writeDataset(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"cat.csv": "category_id,name,type\nc1,Breakfast,recipe\nc2,Dairy,ingredient\n",
		"ing.csv": "ingredient_id,name,category,calories_per_100g,kj_per_100g\n" +
			"i1,milk,Dairy,42,175\ni2,egg,Protein,155,648\ni3,flour,Grain,364,1523\ni4,sugar,Sweetener,387,1619\n",
		"rec.csv": "recipe_id,title,rating,calories,protein,fat,sodium,description,directions,ingredients_raw\n" +
			"rA,Pancakes,4.5,350,8,12,400,Fluffy,Mix and fry,milk; egg; flour\n" +
			"rB,Sponge,4.0,410,6,14,210,Light,Whisk and bake,egg; flour; sugar\n" +
			"rC,Glass of Milk,0,103,8,2,107,Plain,Pour,milk\n" +
			"rD,Crepes,4.2,280,7,9,320,Thin,Mix and fry thin,milk; egg; flour; sugar\n",
		"con.csv": "recipe_id,ingredient_id\n" +
			"rA,i1\nrA,i2\nrA,i3\n" +
			"rB,i2\nrB,i3\nrB,i4\n" +
			"rC,i1\n" +
			"rD,i1\nrD,i2\nrD,i3\nrD,i4\n" +
			"rA,missing-ingredient\n",
		"bel.csv": "recipe_id,category_id\nrA,c1\nrB,c1\nrC,c1\nrD,c1\n",
		"cls.csv": "ingredient_id,category_id\ni1,c2\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg.Data.Dir = dir
	cfg.Data.Categories = "cat.csv"
	cfg.Data.Ingredients = "ing.csv"
	cfg.Data.Recipes = "rec.csv"
	cfg.Data.RecipeIngredientEdges = "con.csv"
	cfg.Data.RecipeCategoryEdges = "bel.csv"
	cfg.Data.IngredientCategoryEdges = "cls.csv"
}

func TestPipeline_EndToEnd(t *testing.T) {
	d, cfg := connect(t)
	writeDataset(t, cfg)
	ctx := context.Background()

	p := core.NewPipeline(d, cfg, zerolog.Nop())
	summary, err := p.Run(ctx, core.Options{Clear: true})
	require.NoError(t, err)

	// The one edge row naming an absent ingredient must be counted,
	// not loaded.
	assert.Equal(t, 1, summary.TotalUnresolved())

	nodes, err := d.ExecuteQuery(ctx, driver.CountNodesQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, driver.SingleInt(nodes, "recipes"))
	assert.Equal(t, 4, driver.SingleInt(nodes, "ingredients"))
	assert.Equal(t, 2, driver.SingleInt(nodes, "categories"))

	edges, err := d.ExecuteQuery(ctx, driver.CountEdgesQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, driver.SingleInt(edges, "contains"))
	assert.Equal(t, 4, driver.SingleInt(edges, "belongs_to"))
	assert.Equal(t, 1, driver.SingleInt(edges, "classified_as"))

	// Shared-ingredient counts: (rA,rD)=3, (rB,rD)=3, (rA,rB)=2,
	// everything touching rC is 1.
	assert.Equal(t, 2, driver.SingleInt(edges, "similar_to"))

	res, err := d.ExecuteQuery(ctx, `
		MATCH (a:Recipe)-[s:SIMILAR_TO]->(b:Recipe)
		RETURN a.recipe_id AS a, b.recipe_id AS b, s.shared_ingredients AS w
		ORDER BY a, b`, nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		a := driver.RecordString(rec, "a")
		b := driver.RecordString(rec, "b")
		assert.Less(t, a, b, "similarity edges must be stored in canonical order")
	}
}

func TestPipeline_ImportIsIdempotent(t *testing.T) {
	d, cfg := connect(t)
	writeDataset(t, cfg)
	ctx := context.Background()

	p := core.NewPipeline(d, cfg, zerolog.Nop())
	_, err := p.Run(ctx, core.Options{Clear: true})
	require.NoError(t, err)

	first, err := d.ExecuteQuery(ctx, driver.CountNodesQuery, nil)
	require.NoError(t, err)

	// Second run without clearing: merges must not duplicate anything.
	_, err = p.Run(ctx, core.Options{})
	require.NoError(t, err)

	second, err := d.ExecuteQuery(ctx, driver.CountNodesQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, driver.SingleInt(first, "recipes"), driver.SingleInt(second, "recipes"))
	assert.Equal(t, driver.SingleInt(first, "ingredients"), driver.SingleInt(second, "ingredients"))
	assert.Equal(t, driver.SingleInt(first, "categories"), driver.SingleInt(second, "categories"))

	edges, err := d.ExecuteQuery(ctx, driver.CountEdgesQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, driver.SingleInt(edges, "contains"))
	assert.Equal(t, 2, driver.SingleInt(edges, "similar_to"))
}

func TestPipeline_ReferentialIntegrity(t *testing.T) {
	d, cfg := connect(t)
	writeDataset(t, cfg)
	ctx := context.Background()

	p := core.NewPipeline(d, cfg, zerolog.Nop())
	_, err := p.Run(ctx, core.Options{Clear: true})
	require.NoError(t, err)

	// Every stored edge must join nodes of the expected kinds; a
	// dangling endpoint would surface as a non-zero count here.
	res, err := d.ExecuteQuery(ctx, `
		MATCH (a)-[r:CONTAINS|BELONGS_TO|CLASSIFIED_AS]->(b)
		WHERE (type(r) = 'CONTAINS' AND NOT (a:Recipe AND b:Ingredient))
		   OR (type(r) = 'BELONGS_TO' AND NOT (a:Recipe AND b:Category))
		   OR (type(r) = 'CLASSIFIED_AS' AND NOT (a:Ingredient AND b:Category))
		RETURN count(r) AS bad`, nil)
	require.NoError(t, err)
	assert.Zero(t, driver.SingleInt(res, "bad"))
}

func TestSimilarity_RecomputeAfterContainsChange(t *testing.T) {
	d, cfg := connect(t)
	writeDataset(t, cfg)
	ctx := context.Background()

	p := core.NewPipeline(d, cfg, zerolog.Nop())
	_, err := p.Run(ctx, core.Options{Clear: true})
	require.NoError(t, err)

	// rA and rB share 2 ingredients; adding sugar to rA raises the
	// pair to 3, so a recompute must produce the (rA, rB) edge.
	_, err = d.ExecuteQuery(ctx, `
		MATCH (r:Recipe {recipe_id: 'rA'}), (i:Ingredient {ingredient_id: 'i4'})
		MERGE (r)-[:CONTAINS]->(i)`, nil)
	require.NoError(t, err)

	stats, err := p.DeriveSimilarity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EdgesDropped)
	assert.Equal(t, 3, stats.EdgesWritten) // (rA,rB)=3, (rA,rD)=4, (rB,rD)=3

	res, err := d.ExecuteQuery(ctx, `
		MATCH (a:Recipe {recipe_id: 'rA'})-[s:SIMILAR_TO]-(b:Recipe {recipe_id: 'rB'})
		RETURN count(s) AS n`, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, driver.SingleInt(res, "n"))
}
