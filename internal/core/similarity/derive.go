package similarity

import (
	"sort"

	"github.com/rokumeals/grubgraph/internal/core/model"
)

// pairKey identifies an unordered recipe pair in canonical order
// (A < B lexicographically).
type pairKey struct {
	A, B string
}

func canonical(r1, r2 string) pairKey {
	if r1 < r2 {
		return pairKey{A: r1, B: r2}
	}
	return pairKey{A: r2, B: r1}
}

// Derive computes the SIMILAR_TO edge set from the CONTAINS edge set.
// It returns the retained edges and the number of distinct co-occurring
// pairs counted before thresholding.
//
// The join order matters: a recipe-centric pairwise scan is O(R^2) over
// twenty thousand recipes. Instead we build an inverted index from
// ingredient to the recipes containing it and enumerate co-occurring
// pairs per ingredient, which keeps the work proportional to the sum of
// C(k,2) over per-ingredient fan-outs. Duplicate CONTAINS rows are
// collapsed first so a shared ingredient is never counted twice.
//
// Pairs whose distinct shared-ingredient count reaches threshold become
// edges, each stored once in canonical order.
func Derive(contains []model.ContainsEdge, threshold int) ([]model.SimilarToEdge, int) {
	if threshold < 1 {
		threshold = 1
	}

	seen := make(map[model.ContainsEdge]struct{}, len(contains))
	index := make(map[string][]string)
	for _, e := range contains {
		if e.RecipeID == "" || e.IngredientID == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		index[e.IngredientID] = append(index[e.IngredientID], e.RecipeID)
	}

	counts := make(map[pairKey]int)
	for _, recipes := range index {
		for i := 0; i < len(recipes); i++ {
			for j := i + 1; j < len(recipes); j++ {
				counts[canonical(recipes[i], recipes[j])]++
			}
		}
	}

	edges := make([]model.SimilarToEdge, 0, len(counts)/4)
	for key, n := range counts {
		if n >= threshold {
			edges = append(edges, model.SimilarToEdge{RecipeA: key.A, RecipeB: key.B, Weight: n})
		}
	}

	// Deterministic output order for stable batching and tests.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].RecipeA != edges[j].RecipeA {
			return edges[i].RecipeA < edges[j].RecipeA
		}
		return edges[i].RecipeB < edges[j].RecipeB
	})
	return edges, len(counts)
}
