package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type StoreConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type DataConfig struct {
	Dir                     string `toml:"dir"`
	Recipes                 string `toml:"recipes"`
	Ingredients             string `toml:"ingredients"`
	Categories              string `toml:"categories"`
	RecipeIngredientEdges   string `toml:"recipe_ingredient_edges"`
	RecipeCategoryEdges     string `toml:"recipe_category_edges"`
	IngredientCategoryEdges string `toml:"ingredient_category_edges"`
}

type LoadConfig struct {
	BatchSize     int `toml:"batch_size"`
	RetryAttempts int `toml:"retry_attempts"`
	MaxBackoffSec int `toml:"max_backoff_seconds"`
}

type SimilarityConfig struct {
	Threshold int `toml:"threshold"`
}

type Config struct {
	Store      StoreConfig      `toml:"store"`
	Data       DataConfig       `toml:"data"`
	Load       LoadConfig       `toml:"load"`
	Similarity SimilarityConfig `toml:"similarity"`
}

// Default returns the configuration used when no file is present. File
// names follow the published dataset layout.
func Default() *Config {
	return &Config{
		Store: StoreConfig{URI: "bolt://localhost:7687", User: "neo4j"},
		Data: DataConfig{
			Dir:                     "datasets",
			Recipes:                 "final_recipes.csv",
			Ingredients:             "final_ingredients.csv",
			Categories:              "final_categories.csv",
			RecipeIngredientEdges:   "final_recipe_ingredient_rels.csv",
			RecipeCategoryEdges:     "final_recipe_category_rels.csv",
			IngredientCategoryEdges: "final_ingredient_category_rels.csv",
		},
		Load:       LoadConfig{BatchSize: 500, RetryAttempts: 5, MaxBackoffSec: 30},
		Similarity: SimilarityConfig{Threshold: 3},
	}
}

// Load reads a TOML config file on top of the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Store.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Store.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Store.Password = v
	}
	if v := os.Getenv("GRUBGRAPH_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("GRUBGRAPH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Load.BatchSize = n
		}
	}
	if v := os.Getenv("GRUBGRAPH_SIMILARITY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Similarity.Threshold = n
		}
	}
}

func (c *Config) Validate() error {
	if c.Store.URI == "" {
		return fmt.Errorf("store.uri must not be empty")
	}
	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("load.batch_size must be positive, got %d", c.Load.BatchSize)
	}
	if c.Similarity.Threshold < 1 {
		return fmt.Errorf("similarity.threshold must be at least 1, got %d", c.Similarity.Threshold)
	}
	return nil
}
