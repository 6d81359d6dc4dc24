package loader

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/rs/zerolog"

	"github.com/rokumeals/grubgraph/internal/driver"
	"github.com/rokumeals/grubgraph/internal/types"
)

// RetryPolicy bounds the per-batch retry loop used for transient store
// failures. Data-validity failures never reach it.
type RetryPolicy struct {
	Attempts   int
	MaxBackoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, MaxBackoff: 30 * time.Second}
}

// Loader runs batched UNWIND writes against the graph store.
type Loader struct {
	Driver    driver.GraphDriver
	BatchSize int
	Retry     RetryPolicy
	Log       zerolog.Logger
}

func New(d driver.GraphDriver, batchSize int, retry RetryPolicy, log zerolog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Loader{Driver: d, BatchSize: batchSize, Retry: retry, Log: log}
}

// writeBatch executes one UNWIND query for a batch of rows, retrying
// with exponential backoff while the store reports a transient fault.
// It returns the integer column named by countKey from the result.
func (l *Loader) writeBatch(ctx context.Context, query string, rows []map[string]any, countKey string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var result neo4j.EagerResult
	operation := func() error {
		res, err := l.Driver.ExecuteQuery(ctx, query, map[string]any{"rows": rows})
		if err != nil {
			return classify(err)
		}
		result = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = l.Retry.MaxBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(l.Retry.Attempts)), ctx)

	notify := func(err error, wait time.Duration) {
		l.Log.Warn().Err(err).Dur("backoff", wait).Int("batch", len(rows)).Msg("store unavailable, retrying batch")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return 0, err
	}
	return driver.SingleInt(result, countKey), nil
}

// classify maps a driver error to the pipeline's error taxonomy. A
// constraint violation surfacing here means the store rejected an
// upsert MERGE outright, which is fatal for the stage; retryable driver
// errors become transient STORE_UNAVAILABLE ones.
func classify(err error) error {
	var ne *db.Neo4jError
	if errors.As(err, &ne) && strings.Contains(ne.Code, "ConstraintValidationFailed") {
		return backoff.Permanent(types.WrapError(types.STORE_INTEGRITY, err, "uniqueness constraint rejected upsert"))
	}
	if neo4j.IsRetryable(err) {
		return types.Transient(err, "batch write failed")
	}
	return backoff.Permanent(types.WrapError(types.STORE_UNAVAILABLE, err, "batch write failed permanently"))
}
