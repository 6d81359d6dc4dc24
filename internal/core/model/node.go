package model

// Recipe is a Recipe node in the knowledge graph. Numeric fields use 0
// as the "unknown" sentinel; the source dataset has partial nutritional
// coverage, so a zero never means a measured zero.
type Recipe struct {
	RecipeID       string  `json:"recipe_id"`
	Title          string  `json:"title"`
	Rating         float64 `json:"rating"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Fat            float64 `json:"fat"`
	Sodium         float64 `json:"sodium"`
	Description    string  `json:"description,omitempty"`
	Directions     string  `json:"directions,omitempty"`
	IngredientsRaw string  `json:"ingredients_raw,omitempty"`
}

// Ingredient is an Ingredient node. Category carries the free-text
// source label ("Unknown" when unclassified).
type Ingredient struct {
	IngredientID   string `json:"ingredient_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	CaloriesPer100 int    `json:"calories_per_100g"`
	KJPer100       int    `json:"kj_per_100g"`
}

// The two values Category.Type may take.
const (
	CategoryTypeRecipe     = "recipe"
	CategoryTypeIngredient = "ingredient"
)

// Category classifies either recipes or ingredients depending on Type.
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

func (r Recipe) Params() map[string]any {
	return map[string]any{
		"recipe_id":       r.RecipeID,
		"title":           r.Title,
		"rating":          r.Rating,
		"calories":        r.Calories,
		"protein":         r.Protein,
		"fat":             r.Fat,
		"sodium":          r.Sodium,
		"description":     r.Description,
		"directions":      r.Directions,
		"ingredients_raw": r.IngredientsRaw,
	}
}

func (i Ingredient) Params() map[string]any {
	return map[string]any{
		"ingredient_id":     i.IngredientID,
		"name":              i.Name,
		"category":          i.Category,
		"calories_per_100g": i.CaloriesPer100,
		"kj_per_100g":       i.KJPer100,
	}
}

func (c Category) Params() map[string]any {
	return map[string]any{
		"category_id": c.CategoryID,
		"name":        c.Name,
		"type":        c.Type,
	}
}
