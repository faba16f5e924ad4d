package graphexport

import (
	"context"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
)

// Export pushes every node and edge in g through b, node first so every
// edge's endpoints already exist by the time MergeEdge runs.
func Export(ctx context.Context, g *repo.GraphRepository, b Backend) error {
	snapshot := g.BuildGraph(nil, nil)

	for _, node := range snapshot.Nodes {
		props := graphmodel.SerializableProperties(node)
		if props == nil {
			props = make(map[string]interface{})
		}
		props["label"] = node.DisplayLabel()

		if err := b.MergeNode(ctx, string(node.NodeType()), node.ID(), props); err != nil {
			return apperrors.ExternalErrorf(err, "export node %q", node.ID())
		}
	}

	for _, edge := range snapshot.Edges {
		if err := b.MergeEdge(ctx, edge.SourceID, edge.TargetID, edge.EdgeType, edge.Metadata); err != nil {
			return apperrors.ExternalErrorf(err, "export edge %q", edge.ID)
		}
	}

	return nil
}
