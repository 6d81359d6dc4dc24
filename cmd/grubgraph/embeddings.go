package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rokumeals/grubgraph/internal/core/embedding"
)

var (
	flagOutputDir string
	flagKind      string
	flagLimit     int
	flagFile      string
	flagDryRun    bool
)

var embeddingsCmd = &cobra.Command{
	Use:   "embeddings",
	Short: "Exchange entity text and vectors with an external embedding generator",
}

var embeddingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entity documents as JSON for external embedding generation",
	RunE:  runEmbeddingsExport,
}

var embeddingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Attach externally generated vectors to existing nodes",
	Long: `Read (type, id, embedding) triples from a JSON file and attach each
vector to its node. Vectors whose entity does not exist are skipped and
counted; the import never creates nodes. Use --dry-run to preview how
many vectors would resolve.`,
	RunE: runEmbeddingsImport,
}

func init() {
	embeddingsExportCmd.Flags().StringVar(&flagOutputDir, "output-dir", "embedding_data", "directory to write JSON exports into")
	embeddingsExportCmd.Flags().StringVar(&flagKind, "kind", "", "export a single kind: recipe, ingredient or category")
	embeddingsExportCmd.Flags().IntVar(&flagLimit, "limit", 0, "cap the number of exported recipes/ingredients")

	embeddingsImportCmd.Flags().StringVar(&flagFile, "file", "", "JSON file of embedding triples")
	embeddingsImportCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "preview without writing")
	_ = embeddingsImportCmd.MarkFlagRequired("file")

	embeddingsCmd.AddCommand(embeddingsExportCmd, embeddingsImportCmd)
	rootCmd.AddCommand(embeddingsCmd)
}

func runEmbeddingsExport(cmd *cobra.Command, args []string) error {
	switch flagKind {
	case "", "recipe", "ingredient", "category":
	default:
		return fmt.Errorf("unknown kind %q: want recipe, ingredient or category", flagKind)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	exporter := &embedding.Exporter{Driver: d, Log: log}
	_, err = exporter.Export(ctx, flagOutputDir, flagKind, flagLimit)
	return err
}

func runEmbeddingsImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	importer := &embedding.Importer{Driver: d, Log: log}
	_, err = importer.ImportFile(ctx, flagFile, flagDryRun)
	return err
}
