package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	EnsureConstraints(ctx context.Context) error
	BuildIndexes(ctx context.Context) error
	Close(ctx context.Context) error
}
