package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/sleroy/java-architecture-analyzer/internal/store"
)

// metadataFile is the JSON shape written to <project>/<DefaultMetadataName>.
type metadataFile struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Path          string                 `json:"path"`
	SchemaVersion int                    `json:"schemaVersion"`
	CreatedAt     string                 `json:"createdAt"`
	LastAnalyzed  string                 `json:"lastAnalyzed"`
	Data          map[string]interface{} `json:"data"`
}

// Save serializes p's metadata to its sidecar file and writes every node
// and edge in g through s. Each node/edge write is a Merge, so saving the
// same project repeatedly never errors on an id collision.
func Save(ctx context.Context, p *Project, g *repo.GraphRepository, s store.Store) error {
	for _, node := range g.GetNodesByType() {
		stored := store.StoredNode{
			ID:             node.ID(),
			Type:           string(node.NodeType()),
			Label:          node.DisplayLabel(),
			Properties:     graphmodel.SerializableProperties(node),
			Metrics:        node.Metrics(),
			Tags:           node.Tags(),
			ExecutionTimes: node.Base().InspectorExecutionTimes(),
		}
		if err := s.MergeNode(ctx, stored); err != nil {
			return apperrors.DatabaseErrorf(err, "save node %q", node.ID())
		}
	}

	for _, edge := range g.GetEdgesByType() {
		stored := store.StoredEdge{
			ID:       edge.ID,
			SourceID: edge.SourceID,
			TargetID: edge.TargetID,
			Type:     edge.EdgeType,
			Metadata: edge.Metadata,
		}
		if err := s.CreateEdge(ctx, stored); err != nil {
			return apperrors.DatabaseErrorf(err, "save edge %q", edge.ID)
		}
	}

	return writeMetadata(p)
}

func writeMetadata(p *Project) error {
	mf := metadataFile{
		ID:            p.ID,
		Name:          p.Name,
		Path:          p.Path,
		SchemaVersion: p.SchemaVersion,
		CreatedAt:     p.CreatedAt.Format(timeLayout),
		LastAnalyzed:  p.LastAnalyzed.Format(timeLayout),
		Data:          p.Data,
	}

	payload, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return apperrors.InternalErrorf("marshal project metadata: %v", err)
	}

	path := filepath.Join(p.Path, DefaultMetadataName)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return apperrors.FileSystemErrorf(err, "write project metadata %q", path)
	}
	return nil
}

// GraphSnapshotJSON renders g's full snapshot as JSON; the optional
// "graph only" export mentioned alongside Save (§4.11).
func GraphSnapshotJSON(g *repo.GraphRepository) ([]byte, error) {
	snapshot := g.BuildGraph(nil, nil)

	type jsonNode struct {
		ID         string                 `json:"id"`
		Type       string                 `json:"type"`
		Label      string                 `json:"label"`
		Properties map[string]interface{} `json:"properties"`
		Tags       []string               `json:"tags"`
	}
	type jsonEdge struct {
		ID       string `json:"id"`
		SourceID string `json:"sourceId"`
		TargetID string `json:"targetId"`
		Type     string `json:"type"`
	}
	type jsonGraph struct {
		Nodes []jsonNode `json:"nodes"`
		Edges []jsonEdge `json:"edges"`
	}

	out := jsonGraph{}
	for _, n := range snapshot.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID: n.ID(), Type: string(n.NodeType()), Label: n.DisplayLabel(),
			Properties: graphmodel.SerializableProperties(n), Tags: n.Tags(),
		})
	}
	for _, e := range snapshot.Edges {
		out.Edges = append(out.Edges, jsonEdge{ID: e.ID, SourceID: e.SourceID, TargetID: e.TargetID, Type: e.EdgeType})
	}

	return json.MarshalIndent(out, "", "  ")
}
