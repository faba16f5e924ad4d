package nodetype

import (
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BuildFileNode(t *testing.T) {
	r := NewDefaultRegistry()

	stored := StoredNode{
		ID:   "/proj/src/Main.java",
		Type: graphmodel.NodeTypeFile,
		Properties: map[string]interface{}{
			"fileName":      "Main.java",
			"fileExtension": ".java",
			"relativePath":  "src/Main.java",
		},
		Tags: []string{"java.is_source"},
	}

	n, err := r.Build(stored, "/proj")
	require.NoError(t, err)

	f, ok := n.(*graphmodel.FileNode)
	require.True(t, ok)
	assert.Equal(t, "Main.java", f.FileName)
	assert.True(t, f.HasTag("java.is_source"))
}

func TestRegistry_BuildArchiveFileNode(t *testing.T) {
	r := NewDefaultRegistry()

	stored := StoredNode{
		ID:   "/proj/.analysis/binaries/lib/com/x/Y.class",
		Type: graphmodel.NodeTypeFile,
		Properties: map[string]interface{}{
			"fileName":          "Y.class",
			"fileExtension":     ".class",
			"fromArchive":       true,
			"relativePath":      "com/x/Y.class",
			"sourceArchivePath": "/proj/lib.jar",
			"archiveEntryPath":  "com/x/Y.class",
		},
	}

	n, err := r.Build(stored, "/proj")
	require.NoError(t, err)

	f := n.(*graphmodel.FileNode)
	assert.True(t, f.FromArchive)
	assert.Equal(t, "/proj/lib.jar", f.SourceArchivePath)
	assert.Equal(t, "com/x/Y.class", f.RelativePath)
}

func TestRegistry_UnknownTypeFailsLoad(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Build(StoredNode{ID: "x", Type: "mystery"}, "/proj")
	assert.Error(t, err)
}

func TestRegistry_BuildClassNode(t *testing.T) {
	r := NewDefaultRegistry()

	stored := StoredNode{
		ID:   "demo.Main",
		Type: graphmodel.NodeTypeClass,
		Properties: map[string]interface{}{
			"simpleName":  "Main",
			"packageName": "demo",
			"classKind":   "class",
			"sourceOrigin": "source",
		},
	}

	n, err := r.Build(stored, "/proj")
	require.NoError(t, err)

	c := n.(*graphmodel.ClassNode)
	assert.Equal(t, "Main", c.SimpleName)
	assert.False(t, c.IsInDefaultPackage())
}
