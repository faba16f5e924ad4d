package graphexport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
)

type recordedNode struct {
	label, id string
	props     map[string]any
}

type recordedEdge struct {
	sourceID, targetID, edgeType string
}

type fakeBackend struct {
	nodes []recordedNode
	edges []recordedEdge
}

func (f *fakeBackend) MergeNode(ctx context.Context, label, id string, properties map[string]any) error {
	f.nodes = append(f.nodes, recordedNode{label: label, id: id, props: properties})
	return nil
}

func (f *fakeBackend) MergeEdge(ctx context.Context, sourceID, targetID, edgeType string, properties map[string]any) error {
	f.edges = append(f.edges, recordedEdge{sourceID: sourceID, targetID: targetID, edgeType: edgeType})
	return nil
}

func (f *fakeBackend) Close(ctx context.Context) error { return nil }

func TestExport_SendsEveryNodeBeforeAnyEdge(t *testing.T) {
	g := repo.NewGraphRepository()
	pkg := graphmodel.NewPackageNode("demo")
	class := graphmodel.NewClassNode("demo.Main", "Main", "demo", graphmodel.ClassKindClass, graphmodel.SourceOriginSource)
	g.AddNode(pkg)
	g.AddNode(class)
	_, err := g.GetOrCreateEdge(pkg.ID(), class.ID(), graphmodel.EdgeTypeContains)
	require.NoError(t, err)

	backend := &fakeBackend{}
	require.NoError(t, Export(context.Background(), g, backend))

	require.Len(t, backend.nodes, 2)
	require.Len(t, backend.edges, 1)
	assert.Equal(t, "demo", backend.edges[0].sourceID)
	assert.Equal(t, "demo.Main", backend.edges[0].targetID)
	assert.Equal(t, graphmodel.EdgeTypeContains, backend.edges[0].edgeType)

	var sawClass bool
	for _, n := range backend.nodes {
		if n.id == "demo.Main" {
			sawClass = true
			assert.Equal(t, "java_class", n.label)
			assert.Equal(t, "Main", n.props["label"])
		}
	}
	assert.True(t, sawClass)
}
