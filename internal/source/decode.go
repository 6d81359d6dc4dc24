package source

import (
	"github.com/rokumeals/grubgraph/internal/core/model"
	"github.com/rokumeals/grubgraph/internal/types"
)

// Decoders turn raw rows into domain values. A row missing its
// identifier is rejected outright; every other field falls back to the
// unknown sentinel (0 or "").

func DecodeRecipe(row Row) (model.Recipe, error) {
	id := row.Text("recipe_id")
	if id == "" {
		return model.Recipe{}, types.NewError(types.MALFORMED_ROW, "recipe row at line %d has no recipe_id", row.Line)
	}
	return model.Recipe{
		RecipeID:       id,
		Title:          row.Text("title"),
		Rating:         row.Float("rating"),
		Calories:       row.Float("calories"),
		Protein:        row.Float("protein"),
		Fat:            row.Float("fat"),
		Sodium:         row.Float("sodium"),
		Description:    row.Text("description"),
		Directions:     row.Text("directions"),
		IngredientsRaw: row.Text("ingredients_raw"),
	}, nil
}

func DecodeIngredient(row Row) (model.Ingredient, error) {
	id := row.Text("ingredient_id")
	if id == "" {
		return model.Ingredient{}, types.NewError(types.MALFORMED_ROW, "ingredient row at line %d has no ingredient_id", row.Line)
	}
	category := row.Text("category")
	if category == "" {
		category = "Unknown"
	}
	return model.Ingredient{
		IngredientID:   id,
		Name:           row.Text("name"),
		Category:       category,
		CaloriesPer100: row.Int("calories_per_100g"),
		KJPer100:       row.Int("kj_per_100g"),
	}, nil
}

func DecodeCategory(row Row) (model.Category, error) {
	id := row.Text("category_id")
	if id == "" {
		return model.Category{}, types.NewError(types.MALFORMED_ROW, "category row at line %d has no category_id", row.Line)
	}
	return model.Category{
		CategoryID: id,
		Name:       row.Text("name"),
		Type:       row.Text("type"),
	}, nil
}

// edgeRow pulls the two identifier columns of a relationship row,
// rejecting the row when either is missing.
func edgeRow(row Row, srcCol, dstCol string) (string, string, error) {
	src := row.Text(srcCol)
	dst := row.Text(dstCol)
	if src == "" || dst == "" {
		return "", "", types.NewError(types.MALFORMED_ROW, "edge row at line %d is missing %s or %s", row.Line, srcCol, dstCol)
	}
	return src, dst, nil
}

func DecodeContains(row Row) (model.ContainsEdge, error) {
	r, i, err := edgeRow(row, "recipe_id", "ingredient_id")
	if err != nil {
		return model.ContainsEdge{}, err
	}
	return model.ContainsEdge{RecipeID: r, IngredientID: i}, nil
}

func DecodeBelongsTo(row Row) (model.BelongsToEdge, error) {
	r, c, err := edgeRow(row, "recipe_id", "category_id")
	if err != nil {
		return model.BelongsToEdge{}, err
	}
	return model.BelongsToEdge{RecipeID: r, CategoryID: c}, nil
}

func DecodeClassifiedAs(row Row) (model.ClassifiedAsEdge, error) {
	i, c, err := edgeRow(row, "ingredient_id", "category_id")
	if err != nil {
		return model.ClassifiedAsEdge{}, err
	}
	return model.ClassifiedAsEdge{IngredientID: i, CategoryID: c}, nil
}
