// Package store implements the persistence adapter (C4): a relational
// store over three logical tables (nodes, edges, node_tags) with a
// symmetric flatten/nest property transformer, backed by either
// PostgreSQL or SQLite.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by FindBy* lookups that find nothing.
var ErrNotFound = errors.New("store: not found")

// StoredNode is the row shape persisted for a node. Properties round-trip
// through the flatten/nest transformer in flatten.go; Metrics and Tags are
// stored as plain JSON, and Tags is additionally denormalized into node_tags for
// indexed tag queries. ExecutionTimes is the inspector execution ledger,
// serialized separately from Properties so restoring it on load never
// looks like a property change.
type StoredNode struct {
	ID             string
	Type           string
	Label          string
	Properties     map[string]interface{}
	Metrics        map[string]float64
	Tags           []string
	ExecutionTimes map[string]time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StoredEdge is the row shape persisted for an edge.
type StoredEdge struct {
	ID        string
	SourceID  string
	TargetID  string
	Type      string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// Statistics summarizes store contents.
type Statistics struct {
	NodeCount int64
	EdgeCount int64
	TagCount  int64
}

// Store is the persistence adapter surface exposed to the rest of the
// core. Two implementations exist: PostgresStore and SQLiteStore, both
// built on the same flatten/nest transformer so round-trip identity is
// backend-independent.
type Store interface {
	// SaveNode performs an atomic upsert of node.
	SaveNode(ctx context.Context, node StoredNode) error

	// MergeNode is an idempotent upsert used during re-analysis so that
	// re-discovering the same node never errors.
	MergeNode(ctx context.Context, node StoredNode) error

	// MergeProperties applies a JSON-merge-patch: keys in patch override,
	// absent keys are preserved.
	MergeProperties(ctx context.Context, nodeID string, patch map[string]interface{}) error

	FindByID(ctx context.Context, id string) (StoredNode, error)
	FindByType(ctx context.Context, nodeType string) ([]StoredNode, error)
	FindAll(ctx context.Context) ([]StoredNode, error)
	FindByPropertyValue(ctx context.Context, jsonPath string, value interface{}) ([]StoredNode, error)
	FindByTag(ctx context.Context, tag string) ([]StoredNode, error)
	FindByAnyTags(ctx context.Context, tags []string) ([]StoredNode, error)
	FindByAllTags(ctx context.Context, tags []string) ([]StoredNode, error)
	FindByTypeAndAnyTags(ctx context.Context, nodeType string, tags []string) ([]StoredNode, error)
	FindByTypeAndAllTags(ctx context.Context, nodeType string, tags []string) ([]StoredNode, error)

	CreateEdge(ctx context.Context, edge StoredEdge) error
	FindOutgoing(ctx context.Context, nodeID string) ([]StoredEdge, error)
	FindIncoming(ctx context.Context, nodeID string) ([]StoredEdge, error)
	FindEdgesByType(ctx context.Context, edgeType string) ([]StoredEdge, error)

	// ClearAll truncates in FK-safe order: edges, tags, then nodes.
	ClearAll(ctx context.Context) error
	Statistics(ctx context.Context) (Statistics, error)

	// Close releases the underlying connection.
	Close() error
}
