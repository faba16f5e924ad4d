package graphexport

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jBackend implements Backend over the official Neo4j driver,
// adapted from the teacher's internal/graph.Neo4jBackend: the same
// MERGE-by-parameterized-query approach, generalized from the teacher's
// per-label unique-key lookup to a single "id" property every node in
// this graph already carries.
type Neo4jBackend struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jBackend dials uri and verifies connectivity before returning.
func NewNeo4jBackend(ctx context.Context, uri, username, password, database string) (*Neo4jBackend, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}
	return &Neo4jBackend{driver: driver, database: database}, nil
}

func (n *Neo4jBackend) MergeNode(ctx context.Context, label, id string, properties map[string]any) error {
	builder := newCypherBuilder()
	cypher, err := builder.buildMergeNode(label, id, properties)
	if err != nil {
		return fmt.Errorf("build merge-node query: %w", err)
	}

	_, err = neo4j.ExecuteQuery(ctx, n.driver, cypher, builder.Params(),
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(n.database))
	if err != nil {
		return fmt.Errorf("merge node %q: %w", id, err)
	}
	return nil
}

func (n *Neo4jBackend) MergeEdge(ctx context.Context, sourceID, targetID, edgeType string, properties map[string]any) error {
	builder := newCypherBuilder()
	cypher, err := builder.buildMergeEdge(sourceID, targetID, edgeType, properties)
	if err != nil {
		return fmt.Errorf("build merge-edge query: %w", err)
	}

	_, err = neo4j.ExecuteQuery(ctx, n.driver, cypher, builder.Params(),
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(n.database))
	if err != nil {
		return fmt.Errorf("merge edge %s->%s: %w", sourceID, targetID, err)
	}
	return nil
}

func (n *Neo4jBackend) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}
