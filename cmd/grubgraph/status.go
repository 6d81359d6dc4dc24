package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rokumeals/grubgraph/internal/driver"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report node and edge counts in the graph",
	RunE:  runStatus,
}

// GraphStatus is the count report printed by the status command.
type GraphStatus struct {
	Recipes      int `json:"recipes"`
	Ingredients  int `json:"ingredients"`
	Categories   int `json:"categories"`
	Contains     int `json:"contains"`
	BelongsTo    int `json:"belongs_to"`
	ClassifiedAs int `json:"classified_as"`
	SimilarTo    int `json:"similar_to"`
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	var status GraphStatus

	nodes, err := d.ExecuteQuery(ctx, driver.CountNodesQuery, nil)
	if err != nil {
		return err
	}
	status.Recipes = driver.SingleInt(nodes, "recipes")
	status.Ingredients = driver.SingleInt(nodes, "ingredients")
	status.Categories = driver.SingleInt(nodes, "categories")

	edges, err := d.ExecuteQuery(ctx, driver.CountEdgesQuery, nil)
	if err != nil {
		return err
	}
	status.Contains = driver.SingleInt(edges, "contains")
	status.BelongsTo = driver.SingleInt(edges, "belongs_to")
	status.ClassifiedAs = driver.SingleInt(edges, "classified_as")
	status.SimilarTo = driver.SingleInt(edges, "similar_to")

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
