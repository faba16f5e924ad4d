package inspectorreg

import (
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector struct {
	*inspector.Base
}

func newStub(name string, requires, produces []string) *stubInspector {
	return &stubInspector{Base: inspector.NewBase(name, inspector.TargetFile, inspector.NewDependencies(requires, produces))}
}

func (s *stubInspector) Supports(node graphmodel.GraphNode) bool   { return true }
func (s *stubInspector) CanProcess(node graphmodel.GraphNode) bool { return true }
func (s *stubInspector) Inspect(node graphmodel.GraphNode, d inspector.NodeDecorator) error {
	return nil
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("A", nil, []string{"t"})))
	err := r.Register(newStub("A", nil, nil))
	assert.Error(t, err)
}

func TestRegistry_BuildDependencyGraphConsolidatesSharedTags(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("P", nil, []string{"t1", "t2"})))
	require.NoError(t, r.Register(newStub("C", []string{"t1", "t2"}, nil)))

	edges := r.BuildDependencyGraph()
	require.Len(t, edges, 1)
	assert.Equal(t, "P", edges[0].Producer)
	assert.Equal(t, "C", edges[0].Consumer)
	assert.ElementsMatch(t, []string{"t1", "t2"}, edges[0].Tags)
}

func TestRegistry_UnusedTagDiagnostic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("A", nil, []string{"orphan"})))

	diag := r.Diagnose()
	assert.Contains(t, diag.UnusedTags, "orphan")
}

func TestRegistry_CycleDetected(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("A", []string{"fromB"}, []string{"toB"})))
	require.NoError(t, r.Register(newStub("B", []string{"toB"}, []string{"fromB"})))

	diag := r.Diagnose()
	assert.NotEmpty(t, diag.Cycles)
}

func TestRegistry_PotentialDuplicateTags(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("A", nil, []string{"java.is_source", "java.isSource"})))

	diag := r.Diagnose()
	assert.NotEmpty(t, diag.PotentialDuplicateTags)
}
