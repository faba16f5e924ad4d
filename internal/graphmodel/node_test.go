package graphmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_SetPropertyAdvancesLastModified(t *testing.T) {
	n := NewNode("n1", NodeTypeFile, "n1")
	before := n.LastModified()

	time.Sleep(time.Millisecond)
	n.SetProperty("k", "v")

	assert.True(t, n.LastModified().After(before))
	v, ok := n.Property("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestNode_MarkInspectorExecutedDoesNotAdvanceLastModified(t *testing.T) {
	n := NewNode("n1", NodeTypeFile, "n1")
	before := n.LastModified()

	n.MarkInspectorExecuted("detector.X", time.Now().Add(time.Hour))

	assert.Equal(t, before, n.LastModified())
}

func TestNode_IsInspectorUpToDate(t *testing.T) {
	t.Run("not yet executed", func(t *testing.T) {
		n := NewNode("n1", NodeTypeFile, "n1")
		assert.False(t, n.IsInspectorUpToDate("X"))
	})

	t.Run("executed after last modification", func(t *testing.T) {
		n := NewNode("n1", NodeTypeFile, "n1")
		n.SetProperty("k", "v")
		n.MarkInspectorExecuted("X", time.Now().Add(time.Second))
		assert.True(t, n.IsInspectorUpToDate("X"))
	})

	t.Run("stale after a later mutation", func(t *testing.T) {
		n := NewNode("n1", NodeTypeFile, "n1")
		n.MarkInspectorExecuted("X", time.Now())
		time.Sleep(time.Millisecond)
		n.SetProperty("k", "v2")
		assert.False(t, n.IsInspectorUpToDate("X"))
	})
}

func TestNode_TagsAndMetrics(t *testing.T) {
	n := NewNode("n1", NodeTypeFile, "n1")
	assert.False(t, n.HasTag("java.is_source"))

	n.EnableTag("java.is_source")
	assert.True(t, n.HasTag("java.is_source"))
	assert.Contains(t, n.Tags(), "java.is_source")

	n.SetMetric("cyclomatic", 4)
	v, ok := n.Metric("cyclomatic")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
}

func TestClassNode_DefaultPackage(t *testing.T) {
	c := NewClassNode("Main", "Main", "", ClassKindClass, SourceOriginSource)
	assert.True(t, c.IsInDefaultPackage())
	assert.Equal(t, defaultPackageID, c.EffectivePackageID())

	c2 := NewClassNode("demo.Main", "Main", "demo", ClassKindClass, SourceOriginSource)
	assert.False(t, c2.IsInDefaultPackage())
	assert.Equal(t, "demo", c2.EffectivePackageID())
}

func TestFileNode_MarkFromArchive(t *testing.T) {
	f := NewFileNode("root/lib.jar!com/x/Y.class", "com/x/Y.class", "Y.class", ".class")
	f.MarkFromArchive("root/lib.jar", "com/x/Y.class")

	assert.True(t, f.FromArchive)
	assert.Equal(t, "root/lib.jar", f.SourceArchivePath)
	assert.Equal(t, "com/x/Y.class", f.ArchiveEntryPath)
}

func TestGraphEdge_Key(t *testing.T) {
	e := NewGraphEdge("e1", "a", "b", EdgeTypeDependsOn)
	assert.Equal(t, EdgeKey{SourceID: "a", TargetID: "b", EdgeType: EdgeTypeDependsOn}, e.Key())
}
