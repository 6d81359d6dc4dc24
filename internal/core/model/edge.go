package model

// ContainsEdge links a Recipe to an Ingredient it uses.
type ContainsEdge struct {
	RecipeID     string `json:"recipe_id"`
	IngredientID string `json:"ingredient_id"`
}

// BelongsToEdge links a Recipe to one of its Categories.
type BelongsToEdge struct {
	RecipeID   string `json:"recipe_id"`
	CategoryID string `json:"category_id"`
}

// ClassifiedAsEdge links an Ingredient to its Category.
type ClassifiedAsEdge struct {
	IngredientID string `json:"ingredient_id"`
	CategoryID   string `json:"category_id"`
}

// SimilarToEdge is a derived Recipe-Recipe edge. Weight is the number
// of distinct shared ingredients. RecipeA sorts strictly before RecipeB
// so each unordered pair is stored exactly once.
type SimilarToEdge struct {
	RecipeA string `json:"recipe_a"`
	RecipeB string `json:"recipe_b"`
	Weight  int    `json:"weight"`
}

func (e ContainsEdge) Params() map[string]any {
	return map[string]any{"recipe_id": e.RecipeID, "ingredient_id": e.IngredientID}
}

func (e BelongsToEdge) Params() map[string]any {
	return map[string]any{"recipe_id": e.RecipeID, "category_id": e.CategoryID}
}

func (e ClassifiedAsEdge) Params() map[string]any {
	return map[string]any{"ingredient_id": e.IngredientID, "category_id": e.CategoryID}
}

func (e SimilarToEdge) Params() map[string]any {
	return map[string]any{"recipe_a": e.RecipeA, "recipe_b": e.RecipeB, "weight": e.Weight}
}
