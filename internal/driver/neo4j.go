package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
)

type Neo4jDriver struct {
	Driver neo4j.DriverWithContext
	log    zerolog.Logger
}

func NewNeo4jDriver(ctx context.Context, uri, username, password string, log zerolog.Logger) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("store unreachable at %s: %w", uri, err)
	}

	log.Info().Str("uri", uri).Msg("connected to graph store")
	return &Neo4jDriver{Driver: driver, log: log}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// EnsureConstraints declares the uniqueness constraint for each node
// kind. These must exist before any load so that upserts match by
// identifier instead of scanning. Idempotent via IF NOT EXISTS.
func (d *Neo4jDriver) EnsureConstraints(ctx context.Context) error {
	for _, q := range constraintQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	d.log.Debug().Int("constraints", len(constraintQueries)).Msg("uniqueness constraints ensured")
	return nil
}

// BuildIndexes declares the secondary indexes on frequently queried
// attributes. Runs after bulk load so index maintenance does not slow
// the inserts.
func (d *Neo4jDriver) BuildIndexes(ctx context.Context) error {
	for _, q := range indexQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Index syntax varies slightly across server versions.
			d.log.Warn().Err(err).Str("query", q).Msg("failed to create index")
		}
	}
	return nil
}
