// Package graphexport ships a GraphRepository snapshot out to an
// external graph database, adapted from the teacher's internal/graph
// Backend abstraction (dev_docs integration guide references stripped,
// since nothing here inherits them). Unlike the teacher's split
// interface/implementation pair, every Backend method here is
// context-aware: the teacher's Backend interface omitted ctx while its
// only implementation, Neo4jBackend, required one on every method, a
// mismatch this package does not reproduce.
package graphexport

import "context"

// Backend is the export destination for one graph snapshot. The only
// production implementation is Neo4jBackend; Postgres/SQLite already
// hold the canonical graph via internal/store and internal/project, so
// this is strictly an optional secondary sink for Cypher-native tooling.
type Backend interface {
	// MergeNode upserts one node keyed by id.
	MergeNode(ctx context.Context, label, id string, properties map[string]any) error

	// MergeEdge upserts one relationship between two already-merged nodes.
	MergeEdge(ctx context.Context, sourceID, targetID, edgeType string, properties map[string]any) error

	Close(ctx context.Context) error
}
