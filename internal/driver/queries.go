package driver

const (
	UpsertRecipesQuery = `
		UNWIND $rows AS row
		MERGE (r:Recipe {recipe_id: row.recipe_id})
		SET r.title = row.title,
			r.rating = row.rating,
			r.calories = row.calories,
			r.protein = row.protein,
			r.fat = row.fat,
			r.sodium = row.sodium,
			r.description = row.description,
			r.directions = row.directions,
			r.ingredients_raw = row.ingredients_raw
		RETURN count(r) AS upserted
	`

	UpsertIngredientsQuery = `
		UNWIND $rows AS row
		MERGE (i:Ingredient {ingredient_id: row.ingredient_id})
		SET i.name = row.name,
			i.category = row.category,
			i.calories_per_100g = row.calories_per_100g,
			i.kj_per_100g = row.kj_per_100g
		RETURN count(i) AS upserted
	`

	UpsertCategoriesQuery = `
		UNWIND $rows AS row
		MERGE (c:Category {category_id: row.category_id})
		SET c.name = row.name,
			c.type = row.type
		RETURN count(c) AS upserted
	`

	// Edge merges resolve both endpoints first; a row whose MATCH fails
	// simply drops out of the UNWIND stream, so the returned count is
	// the number of rows that resolved.
	MergeContainsQuery = `
		UNWIND $rows AS row
		MATCH (r:Recipe {recipe_id: row.recipe_id})
		MATCH (i:Ingredient {ingredient_id: row.ingredient_id})
		MERGE (r)-[:CONTAINS]->(i)
		RETURN count(*) AS resolved
	`

	MergeBelongsToQuery = `
		UNWIND $rows AS row
		MATCH (r:Recipe {recipe_id: row.recipe_id})
		MATCH (c:Category {category_id: row.category_id})
		MERGE (r)-[:BELONGS_TO]->(c)
		RETURN count(*) AS resolved
	`

	MergeClassifiedAsQuery = `
		UNWIND $rows AS row
		MATCH (i:Ingredient {ingredient_id: row.ingredient_id})
		MATCH (c:Category {category_id: row.category_id})
		MERGE (i)-[:CLASSIFIED_AS]->(c)
		RETURN count(*) AS resolved
	`

	FetchContainsQuery = `
		MATCH (r:Recipe)-[:CONTAINS]->(i:Ingredient)
		RETURN r.recipe_id AS recipe_id, i.ingredient_id AS ingredient_id
	`

	DeleteSimilarToQuery = `
		MATCH (:Recipe)-[s:SIMILAR_TO]->(:Recipe)
		DELETE s
		RETURN count(s) AS deleted
	`

	MergeSimilarToQuery = `
		UNWIND $rows AS row
		MATCH (a:Recipe {recipe_id: row.recipe_a})
		MATCH (b:Recipe {recipe_id: row.recipe_b})
		MERGE (a)-[s:SIMILAR_TO]->(b)
		SET s.shared_ingredients = row.weight
		RETURN count(*) AS resolved
	`

	CountNodesQuery = `
		MATCH (r:Recipe) WITH count(r) AS recipes
		MATCH (i:Ingredient) WITH recipes, count(i) AS ingredients
		MATCH (c:Category)
		RETURN recipes, ingredients, count(c) AS categories
	`

	CountEdgesQuery = `
		OPTIONAL MATCH ()-[x:CONTAINS]->() WITH count(x) AS contains
		OPTIONAL MATCH ()-[y:BELONGS_TO]->() WITH contains, count(y) AS belongs_to
		OPTIONAL MATCH ()-[z:CLASSIFIED_AS]->() WITH contains, belongs_to, count(z) AS classified_as
		OPTIONAL MATCH ()-[w:SIMILAR_TO]->()
		RETURN contains, belongs_to, classified_as, count(w) AS similar_to
	`

	ClearRelationshipsQuery = `MATCH ()-[r]->() DELETE r`

	ClearNodesQuery = `MATCH (n) DELETE n`

	ExportRecipesQuery = `
		MATCH (r:Recipe)
		OPTIONAL MATCH (r)-[:CONTAINS]->(i:Ingredient)
		OPTIONAL MATCH (r)-[:BELONGS_TO]->(c:Category)
		WITH r, collect(DISTINCT i.name) AS ingredients, collect(DISTINCT c.name) AS categories
		RETURN r.recipe_id AS id, r.title AS title, r.description AS description,
			ingredients, categories
	`

	ExportIngredientsQuery = `
		MATCH (i:Ingredient)
		RETURN i.ingredient_id AS id, i.name AS name, i.category AS category
	`

	ExportCategoriesQuery = `
		MATCH (c:Category)
		RETURN c.category_id AS id, c.name AS name, c.type AS type
	`

	AttachRecipeEmbeddingQuery = `
		MATCH (r:Recipe {recipe_id: $id})
		SET r.embedding = $embedding
		RETURN count(r) AS updated
	`

	AttachIngredientEmbeddingQuery = `
		MATCH (i:Ingredient {ingredient_id: $id})
		SET i.embedding = $embedding
		RETURN count(i) AS updated
	`

	AttachCategoryEmbeddingQuery = `
		MATCH (c:Category {category_id: $id})
		SET c.embedding = $embedding
		RETURN count(c) AS updated
	`

	ExistsRecipeQuery = `
		MATCH (r:Recipe {recipe_id: $id}) RETURN count(r) AS found
	`

	ExistsIngredientQuery = `
		MATCH (i:Ingredient {ingredient_id: $id}) RETURN count(i) AS found
	`

	ExistsCategoryQuery = `
		MATCH (c:Category {category_id: $id}) RETURN count(c) AS found
	`
)

var constraintQueries = []string{
	"CREATE CONSTRAINT recipe_id_unique IF NOT EXISTS FOR (r:Recipe) REQUIRE r.recipe_id IS UNIQUE",
	"CREATE CONSTRAINT ingredient_id_unique IF NOT EXISTS FOR (i:Ingredient) REQUIRE i.ingredient_id IS UNIQUE",
	"CREATE CONSTRAINT category_id_unique IF NOT EXISTS FOR (c:Category) REQUIRE c.category_id IS UNIQUE",
}

var indexQueries = []string{
	"CREATE INDEX recipe_title_index IF NOT EXISTS FOR (r:Recipe) ON (r.title)",
	"CREATE INDEX recipe_rating_index IF NOT EXISTS FOR (r:Recipe) ON (r.rating)",
	"CREATE INDEX recipe_calories_index IF NOT EXISTS FOR (r:Recipe) ON (r.calories)",
	"CREATE INDEX ingredient_name_index IF NOT EXISTS FOR (i:Ingredient) ON (i.name)",
	"CREATE INDEX ingredient_category_index IF NOT EXISTS FOR (i:Ingredient) ON (i.category)",
	"CREATE INDEX ingredient_calories_index IF NOT EXISTS FOR (i:Ingredient) ON (i.calories_per_100g)",
	"CREATE INDEX category_name_index IF NOT EXISTS FOR (c:Category) ON (c.name)",
	"CREATE INDEX category_type_index IF NOT EXISTS FOR (c:Category) ON (c.type)",
}
