package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/logging"
	"github.com/sleroy/java-architecture-analyzer/internal/nodetype"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/sleroy/java-architecture-analyzer/internal/store"
)

// logger is package-scoped rather than threaded through every call: Load
// only ever logs drop decisions at debug level, none of which a caller
// needs to configure per-invocation. DebugConfig never errors (it writes
// to stdout only), so the zero value is never observed.
var logger, _ = logging.NewLogger(logging.DebugConfig())

// Exists reports whether a saved project metadata file is present at
// projectPath.
func Exists(projectPath string) bool {
	_, err := os.Stat(filepath.Join(projectPath, DefaultMetadataName))
	return err == nil
}

// Load reads the sidecar metadata file at projectPath, validates its
// schema version, then rehydrates every node and edge from s into a
// fresh GraphRepository via registry's factories. Edges whose endpoints
// fail to rehydrate are dropped with a debug log rather than aborting
// the load (§4.11).
func Load(ctx context.Context, projectPath string, s store.Store, registry *nodetype.Registry) (*Project, *repo.GraphRepository, error) {
	mf, err := readMetadata(projectPath)
	if err != nil {
		return nil, nil, err
	}
	if mf.SchemaVersion != SchemaVersion {
		return nil, nil, apperrors.LoadErrorf(
			"incompatible project schema version: file has %d, runtime expects %d", mf.SchemaVersion, SchemaVersion)
	}

	p, err := metadataToProject(mf)
	if err != nil {
		return nil, nil, err
	}

	g := repo.NewGraphRepository()

	storedNodes, err := s.FindAll(ctx)
	if err != nil {
		return nil, nil, apperrors.DatabaseError(err, "load stored nodes")
	}
	for _, sn := range storedNodes {
		node, buildErr := registry.Build(nodetype.StoredNode{
			ID:             sn.ID,
			Type:           graphmodel.NodeType(sn.Type),
			DisplayLabel:   sn.Label,
			Properties:     sn.Properties,
			Metrics:        sn.Metrics,
			Tags:           sn.Tags,
			ExecutionTimes: sn.ExecutionTimes,
			LastModified:   sn.UpdatedAt,
		}, p.Path)
		if buildErr != nil {
			logger.Debug("dropping node with unrecognized type during load", "id", sn.ID, "type", sn.Type, "error", buildErr)
			continue
		}
		g.AddNode(node)
	}

	loadEdges(ctx, s, g)

	p.Touch()
	return p, g, nil
}

func loadEdges(ctx context.Context, s store.Store, g *repo.GraphRepository) {
	outgoingSeen := make(map[string]struct{})
	for _, n := range g.GetNodesByType() {
		edges, err := s.FindOutgoing(ctx, n.ID())
		if err != nil {
			logger.Debug("failed to load outgoing edges", "node", n.ID(), "error", err)
			continue
		}
		for _, e := range edges {
			if _, dup := outgoingSeen[e.ID]; dup {
				continue
			}
			outgoingSeen[e.ID] = struct{}{}

			if _, ok := g.GetNodeById(e.SourceID); !ok {
				logger.Debug("dropping edge: source endpoint missing", "edge", e.ID, "source", e.SourceID)
				continue
			}
			if _, ok := g.GetNodeById(e.TargetID); !ok {
				logger.Debug("dropping edge: target endpoint missing", "edge", e.ID, "target", e.TargetID)
				continue
			}
			if _, err := g.GetOrCreateEdge(e.SourceID, e.TargetID, e.Type); err != nil {
				logger.Debug("failed to rehydrate edge", "edge", e.ID, "error", err)
			}
		}
	}
}

func readMetadata(projectPath string) (metadataFile, error) {
	path := filepath.Join(projectPath, DefaultMetadataName)
	payload, err := os.ReadFile(path)
	if err != nil {
		return metadataFile{}, apperrors.LoadError(err, "read project metadata file")
	}

	var mf metadataFile
	if err := json.Unmarshal(payload, &mf); err != nil {
		return metadataFile{}, apperrors.LoadError(err, "parse project metadata file")
	}
	return mf, nil
}

func metadataToProject(mf metadataFile) (*Project, error) {
	createdAt, err := time.Parse(timeLayout, mf.CreatedAt)
	if err != nil {
		return nil, apperrors.LoadError(err, "parse project createdAt")
	}
	lastAnalyzed, err := time.Parse(timeLayout, mf.LastAnalyzed)
	if err != nil {
		return nil, apperrors.LoadError(err, "parse project lastAnalyzed")
	}

	data := mf.Data
	if data == nil {
		data = make(map[string]interface{})
	}

	return &Project{
		ID:            mf.ID,
		Name:          mf.Name,
		Path:          mf.Path,
		SchemaVersion: mf.SchemaVersion,
		CreatedAt:     createdAt,
		LastAnalyzed:  lastAnalyzed,
		Data:          data,
	}, nil
}
