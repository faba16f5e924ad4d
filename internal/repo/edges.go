package repo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
)

// GetOrCreateEdge looks up an edge by the (sourceID, targetID, edgeType)
// index key; if absent, it ensures both endpoints are present then
// inserts a new edge with a fresh id (invariant 2: every edge's endpoints
// must exist; invariant 3: at most one edge per key).
func (r *GraphRepository) GetOrCreateEdge(sourceID, targetID, edgeType string) (*graphmodel.GraphEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := graphmodel.EdgeKey{SourceID: sourceID, TargetID: targetID, EdgeType: edgeType}
	if id, ok := r.edgeKey[key]; ok {
		return r.edges[id], nil
	}

	if _, ok := r.nodes[sourceID]; !ok {
		return nil, fmt.Errorf("repo: edge source %q does not exist", sourceID)
	}
	if _, ok := r.nodes[targetID]; !ok {
		return nil, fmt.Errorf("repo: edge target %q does not exist", targetID)
	}

	id := uuid.NewString()
	edge := graphmodel.NewGraphEdge(id, sourceID, targetID, edgeType)

	r.edges[id] = edge
	r.edgeKey[key] = id

	if r.outgoing[sourceID] == nil {
		r.outgoing[sourceID] = make(map[string]struct{})
	}
	r.outgoing[sourceID][id] = struct{}{}

	if r.incoming[targetID] == nil {
		r.incoming[targetID] = make(map[string]struct{})
	}
	r.incoming[targetID][id] = struct{}{}

	return edge, nil
}

// GetEdgeById returns the edge with id, if present.
func (r *GraphRepository) GetEdgeById(id string) (*graphmodel.GraphEdge, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.edges[id]
	return e, ok
}

// GetEdgesByType returns every edge whose type is in types. An empty
// filter returns all edges.
func (r *GraphRepository) GetEdgesByType(types ...string) []*graphmodel.GraphEdge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[string]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}

	out := make([]*graphmodel.GraphEdge, 0)
	for _, e := range r.edges {
		if len(typeSet) == 0 {
			out = append(out, e)
			continue
		}
		if _, ok := typeSet[e.EdgeType]; ok {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns the total number of edges.
func (r *GraphRepository) EdgeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.edges)
}

// GraphSnapshot is the filtered view produced by BuildGraph: a
// self-contained node/edge set suitable for algorithmic analysis or for
// export through a snapshot backend (internal/graphexport).
type GraphSnapshot struct {
	Nodes []graphmodel.GraphNode
	Edges []*graphmodel.GraphEdge
}

// BuildGraph produces a filtered snapshot: nodes matching nodeTypes
// (all nodes if empty) and edges matching edgeTypes (all types if
// empty), restricted to edges whose endpoints both survive the node
// filter.
func (r *GraphRepository) BuildGraph(nodeTypes []graphmodel.NodeType, edgeTypes []string) GraphSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodeSet := make(map[string]graphmodel.GraphNode)
	if len(nodeTypes) == 0 {
		for id, n := range r.nodes {
			nodeSet[id] = n
		}
	} else {
		for _, t := range nodeTypes {
			for id := range r.byType[t] {
				nodeSet[id] = r.nodes[id]
			}
		}
	}

	edgeTypeSet := make(map[string]struct{}, len(edgeTypes))
	for _, t := range edgeTypes {
		edgeTypeSet[t] = struct{}{}
	}

	nodes := make([]graphmodel.GraphNode, 0, len(nodeSet))
	for _, n := range nodeSet {
		nodes = append(nodes, n)
	}

	edges := make([]*graphmodel.GraphEdge, 0)
	for _, e := range r.edges {
		if len(edgeTypeSet) > 0 {
			if _, ok := edgeTypeSet[e.EdgeType]; !ok {
				continue
			}
		}
		_, srcOK := nodeSet[e.SourceID]
		_, dstOK := nodeSet[e.TargetID]
		if srcOK && dstOK {
			edges = append(edges, e)
		}
	}

	return GraphSnapshot{Nodes: nodes, Edges: edges}
}
