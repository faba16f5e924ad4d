package repo

import (
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphRepository_GetOrCreateNodeIdempotent(t *testing.T) {
	g := NewGraphRepository()
	n1 := graphmodel.NewFileNode("a.java", "a.java", "a.java", ".java")

	got1, err := g.GetOrCreateNode(n1)
	require.NoError(t, err)

	n2 := graphmodel.NewFileNode("a.java", "different.java", "different.java", ".java")
	got2, err := g.GetOrCreateNode(n2)
	require.NoError(t, err)

	assert.Same(t, got1, got2)
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraphRepository_RejectsEmptyID(t *testing.T) {
	g := NewGraphRepository()
	_, err := g.GetOrCreateNode(graphmodel.NewFileNode("", "", "", ""))
	assert.Error(t, err)
}

func TestGraphRepository_EdgeUniqueness(t *testing.T) {
	g := NewGraphRepository()
	a, _ := g.GetOrCreateNode(graphmodel.NewFileNode("a", "a", "a", ""))
	b, _ := g.GetOrCreateNode(graphmodel.NewFileNode("b", "b", "b", ""))

	for i := 0; i < 3; i++ {
		_, err := g.GetOrCreateEdge(a.ID(), b.ID(), graphmodel.EdgeTypeDependsOn)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraphRepository_EdgeRequiresExistingEndpoints(t *testing.T) {
	g := NewGraphRepository()
	a, _ := g.GetOrCreateNode(graphmodel.NewFileNode("a", "a", "a", ""))

	_, err := g.GetOrCreateEdge(a.ID(), "missing", graphmodel.EdgeTypeDependsOn)
	assert.Error(t, err)
}

func TestGraphRepository_BuildGraphFiltersByEndpointSurvival(t *testing.T) {
	g := NewGraphRepository()
	c, _ := g.GetOrCreateNode(graphmodel.NewClassNode("demo.A", "A", "demo", graphmodel.ClassKindClass, graphmodel.SourceOriginSource))
	p, _ := g.GetOrCreateNode(graphmodel.NewPackageNode("demo"))
	f, _ := g.GetOrCreateNode(graphmodel.NewFileNode("A.java", "A.java", "A.java", ".java"))

	_, err := g.GetOrCreateEdge(p.ID(), c.ID(), graphmodel.EdgeTypeContains)
	require.NoError(t, err)
	_, err = g.GetOrCreateEdge(c.ID(), f.ID(), "backed_by")
	require.NoError(t, err)

	snapshot := g.BuildGraph([]graphmodel.NodeType{graphmodel.NodeTypePackage, graphmodel.NodeTypeClass}, nil)

	assert.Len(t, snapshot.Nodes, 2)
	assert.Len(t, snapshot.Edges, 1)
	assert.Equal(t, graphmodel.EdgeTypeContains, snapshot.Edges[0].EdgeType)
}

func TestClassRepository_GetOrCreateClassByFqn(t *testing.T) {
	g := NewGraphRepository()
	cr := NewClassRepository(g)

	factoryCalls := 0
	factory := func() *graphmodel.ClassNode {
		factoryCalls++
		return graphmodel.NewClassNode("demo.Main", "Main", "demo", graphmodel.ClassKindClass, graphmodel.SourceOriginSource)
	}

	c1, err := cr.GetOrCreateClassByFqn("demo.Main", factory)
	require.NoError(t, err)
	c2, err := cr.GetOrCreateClassByFqn("demo.Main", factory)
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, factoryCalls)
}
