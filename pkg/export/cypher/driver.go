package cypher

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DriverExecutor runs statements through the Neo4j Go driver. It works
// against Neo4j and Memgraph alike.
type DriverExecutor struct {
	Driver   neo4j.DriverWithContext
	Database string // empty means the server default
}

// NewDriverExecutor connects to uri and verifies connectivity.
func NewDriverExecutor(ctx context.Context, uri, username, password string) (*DriverExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connect to %s: %w", uri, err)
	}
	return &DriverExecutor{Driver: driver}, nil
}

// Execute implements Executor.
func (d *DriverExecutor) Execute(ctx context.Context, query string, params map[string]any) error {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if d.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.Database))
	}
	if _, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...); err != nil {
		return fmt.Errorf("execute query: %w", err)
	}
	return nil
}

// Close closes the underlying driver.
func (d *DriverExecutor) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

var _ Executor = (*DriverExecutor)(nil)
