package project

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/nodetype"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/sleroy/java-architecture-analyzer/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping sqlite-backed test in short mode")
	}
	s, err := store.NewSQLiteStore(":memory:", logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func buildSampleGraph() *repo.GraphRepository {
	g := repo.NewGraphRepository()

	pkg := graphmodel.NewPackageNode("demo")
	g.AddNode(pkg)

	class := graphmodel.NewClassNode("demo.Main", "Main", "demo", graphmodel.ClassKindClass, graphmodel.SourceOriginSource)
	class.EnableTag("java.is_class")
	class.SetProperty("simpleName", "Main")
	class.SetMetric("wmc", 3)
	g.AddNode(class)

	_, _ = g.GetOrCreateEdge(pkg.ID(), class.ID(), graphmodel.EdgeTypeContains)

	return g
}

func TestSaveLoad_RoundTripsNodesTagsPropertiesAndEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	g := buildSampleGraph()
	p := New("demo", dir)

	require.NoError(t, Save(ctx, p, g, s))
	require.True(t, Exists(dir))

	loadedProject, loadedGraph, err := Load(ctx, dir, s, nodetype.NewDefaultRegistry())
	require.NoError(t, err)

	assert.Equal(t, p.ID, loadedProject.ID)
	assert.Equal(t, "demo", loadedProject.Name)
	assert.Equal(t, dir, loadedProject.Path)

	classNode, ok := loadedGraph.GetNodeById("demo.Main")
	require.True(t, ok)
	class := classNode.(*graphmodel.ClassNode)
	assert.Equal(t, "Main", class.SimpleName)
	assert.Equal(t, "demo", class.PackageName)
	assert.True(t, class.HasTag("java.is_class"))
	assert.Equal(t, "Main", class.Properties()["simpleName"])
	assert.Equal(t, 3.0, class.Metrics()["wmc"])

	_, ok = loadedGraph.GetNodeById("demo")
	require.True(t, ok)

	edges := loadedGraph.GetEdgesByType(graphmodel.EdgeTypeContains)
	require.Len(t, edges, 1)
	assert.Equal(t, "demo", edges[0].SourceID)
	assert.Equal(t, "demo.Main", edges[0].TargetID)
}

func TestLoad_RejectsMismatchedSchemaVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	p := New("demo", dir)
	require.NoError(t, Save(ctx, p, repo.NewGraphRepository(), s))

	p.SchemaVersion = SchemaVersion + 1
	require.NoError(t, writeMetadata(p))

	_, _, err := Load(ctx, dir, s, nodetype.NewDefaultRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestLoad_DropsEdgeWithMissingEndpoint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	p := New("demo", dir)
	g := repo.NewGraphRepository()
	class := graphmodel.NewClassNode("demo.Main", "Main", "demo", graphmodel.ClassKindClass, graphmodel.SourceOriginSource)
	g.AddNode(class)

	require.NoError(t, Save(ctx, p, g, s))

	// Store the edge's target under a node type no factory is registered
	// for, so Load drops that node and the edge is left without its target.
	require.NoError(t, s.MergeNode(ctx, store.StoredNode{ID: "demo.Ghost", Type: "mystery", Label: "Ghost"}))
	require.NoError(t, s.CreateEdge(ctx, store.StoredEdge{
		ID: "dangling", SourceID: "demo.Main", TargetID: "demo.Ghost", Type: graphmodel.EdgeTypeContains,
	}))

	_, loadedGraph, err := Load(ctx, dir, s, nodetype.NewDefaultRegistry())
	require.NoError(t, err)
	assert.Empty(t, loadedGraph.GetEdgesByType(graphmodel.EdgeTypeContains))
}

func TestLoad_RefreshesLastAnalyzed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	p := New("demo", dir)
	past := time.Now().Add(-24 * time.Hour)
	p.LastAnalyzed = past
	require.NoError(t, Save(ctx, p, repo.NewGraphRepository(), s))

	loadedProject, _, err := Load(ctx, dir, s, nodetype.NewDefaultRegistry())
	require.NoError(t, err)
	assert.True(t, loadedProject.LastAnalyzed.After(past))
}
