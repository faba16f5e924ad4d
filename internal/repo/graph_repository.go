// Package repo implements the GraphRepository (C2): the single in-memory
// owner of all nodes and edges for one analysis run, with derived indexes
// maintained transactionally on insertion.
package repo

import (
	"fmt"
	"sync"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
)

// GraphRepository owns every node and edge created during an analysis
// run. FileRepository, ClassRepository, and PackageRepository (this
// package) are typed views that delegate all storage to it — it is the
// single owner (spec ownership rule).
//
// Backing maps tolerate concurrent readers plus occasional single-writer
// inserts; callers that mutate concurrently must serialize through one
// writer goroutine (see internal/discovery for the phase-1 fan-in
// pattern).
type GraphRepository struct {
	mu sync.RWMutex

	nodes   map[string]graphmodel.GraphNode
	byType  map[graphmodel.NodeType]map[string]struct{}
	byFQN   map[string]string // fully-qualified name -> class node id, for findClassByFqn

	edges    map[string]*graphmodel.GraphEdge
	edgeKey  map[graphmodel.EdgeKey]string // edge key -> edge id, enforces invariant 3
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]struct{}

	nextEdgeID int
}

// NewGraphRepository creates an empty repository.
func NewGraphRepository() *GraphRepository {
	return &GraphRepository{
		nodes:    make(map[string]graphmodel.GraphNode),
		byType:   make(map[graphmodel.NodeType]map[string]struct{}),
		byFQN:    make(map[string]string),
		edges:    make(map[string]*graphmodel.GraphEdge),
		edgeKey:  make(map[graphmodel.EdgeKey]string),
		outgoing: make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
	}
}

// GetOrCreateNode returns the existing node with the same id unchanged,
// or inserts node and updates indexes. Idempotent. Rejects nodes with an
// empty id.
func (r *GraphRepository) GetOrCreateNode(node graphmodel.GraphNode) (graphmodel.GraphNode, error) {
	if node.ID() == "" {
		return nil, fmt.Errorf("repo: cannot create a node with empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.nodes[node.ID()]; ok {
		return existing, nil
	}
	r.insertLocked(node)
	return node, nil
}

// AddNode upserts node unconditionally; intended for rehydration during
// project load, where the caller already knows the node is authoritative.
func (r *GraphRepository) AddNode(node graphmodel.GraphNode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(node)
}

func (r *GraphRepository) insertLocked(node graphmodel.GraphNode) {
	r.nodes[node.ID()] = node

	byType, ok := r.byType[node.NodeType()]
	if !ok {
		byType = make(map[string]struct{})
		r.byType[node.NodeType()] = byType
	}
	byType[node.ID()] = struct{}{}

	if node.NodeType() == graphmodel.NodeTypeClass {
		r.byFQN[node.ID()] = node.ID()
	}
}

// GetNodeById returns the node with id, if present.
func (r *GraphRepository) GetNodeById(id string) (graphmodel.GraphNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	return n, ok
}

// FindClassByFqn looks up a ClassNode by fully-qualified name via the FQN
// index in O(1).
func (r *GraphRepository) FindClassByFqn(fqn string) (graphmodel.GraphNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byFQN[fqn]
	if !ok {
		return nil, false
	}
	n, ok := r.nodes[id]
	return n, ok
}

// GetNodesByType returns every node whose type is in types. An empty or
// nil filter returns all nodes.
func (r *GraphRepository) GetNodesByType(types ...graphmodel.NodeType) []graphmodel.GraphNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(types) == 0 {
		out := make([]graphmodel.GraphNode, 0, len(r.nodes))
		for _, n := range r.nodes {
			out = append(out, n)
		}
		return out
	}

	out := make([]graphmodel.GraphNode, 0)
	for _, t := range types {
		for id := range r.byType[t] {
			out = append(out, r.nodes[id])
		}
	}
	return out
}

// GetNodesByClass returns every ClassNode with the given classKind.
func (r *GraphRepository) GetNodesByClass(kind graphmodel.ClassKind) []*graphmodel.ClassNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*graphmodel.ClassNode, 0)
	for id := range r.byType[graphmodel.NodeTypeClass] {
		if c, ok := r.nodes[id].(*graphmodel.ClassNode); ok && c.ClassKind == kind {
			out = append(out, c)
		}
	}
	return out
}

// NodeCount returns the total number of nodes.
func (r *GraphRepository) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Clear empties storage and all indexes.
func (r *GraphRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodes = make(map[string]graphmodel.GraphNode)
	r.byType = make(map[graphmodel.NodeType]map[string]struct{})
	r.byFQN = make(map[string]string)
	r.edges = make(map[string]*graphmodel.GraphEdge)
	r.edgeKey = make(map[graphmodel.EdgeKey]string)
	r.outgoing = make(map[string]map[string]struct{})
	r.incoming = make(map[string]map[string]struct{})
	r.nextEdgeID = 0
}
