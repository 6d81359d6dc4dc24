package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rokumeals/grubgraph/internal/config"
	"github.com/rokumeals/grubgraph/internal/driver"
)

var (
	flagConfig  string
	flagVerbose bool

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "grubgraph",
	Short: "Recipe knowledge-graph import and similarity pipeline",
	Long: `grubgraph loads the Meal Balance Grub dataset (recipes, ingredients,
categories and their relationships) into a Neo4j property graph and
derives weighted SIMILAR_TO edges between recipes that share
ingredients.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func main() {
	// Missing .env is fine; config falls back to defaults and process env.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the TOML file named by --config (optional) and
// applies environment overrides.
func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

// openDriver connects to the store from config; callers must Close.
func openDriver(ctx context.Context, cfg *config.Config) (*driver.Neo4jDriver, error) {
	return driver.NewNeo4jDriver(ctx, cfg.Store.URI, cfg.Store.User, cfg.Store.Password, log)
}
