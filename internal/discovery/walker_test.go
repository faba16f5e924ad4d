package discovery

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type javaSourceDetector struct{ *inspector.Base }

func newJavaSourceDetector() *javaSourceDetector {
	return &javaSourceDetector{inspector.NewBase("JavaSourceDetector", inspector.TargetFile, inspector.NewDependencies(nil, []string{"java.is_source"}))}
}

func (d *javaSourceDetector) Supports(node graphmodel.GraphNode) bool {
	f, ok := node.(*graphmodel.FileNode)
	return ok && f.IsJavaSource()
}
func (d *javaSourceDetector) CanProcess(node graphmodel.GraphNode) bool { return d.Supports(node) }
func (d *javaSourceDetector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	dec.EnableTag("java.is_source")
	dec.EnableTag("java.detected")
	return nil
}

func TestWalker_DiscoversSourceFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Main.java"), []byte("package demo; class Main {}"), 0o644))

	g := repo.NewGraphRepository()
	ignore := NewIgnoreFilter(nil)
	extraction := NewExtractionManager(root, ".analysis", NoopDigestCache{})
	w := NewWalker(root, ignore, extraction, []inspector.FileDetector{newJavaSourceDetector()})

	result, err := w.Walk(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesDiscovered)
	assert.Empty(t, result.Errors)

	files := g.GetNodesByType(graphmodel.NodeTypeFile)
	require.Len(t, files, 1)
	f := files[0].(*graphmodel.FileNode)
	assert.True(t, f.HasTag("java.is_source"))
}

func TestWalker_ArchiveExtractionProducesFromArchiveFileNode(t *testing.T) {
	root := t.TempDir()
	jarPath := filepath.Join(root, "lib.jar")
	writeTestJar(t, jarPath, map[string][]byte{"com/x/Y.class": []byte{0xCA, 0xFE, 0xBA, 0xBE}})

	g := repo.NewGraphRepository()
	ignore := NewIgnoreFilter(nil)
	extraction := NewExtractionManager(root, ".analysis", NoopDigestCache{})
	w := NewWalker(root, ignore, extraction, nil)

	result, err := w.Walk(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ArchivesExtracted)

	var archiveMember *graphmodel.FileNode
	for _, n := range g.GetNodesByType(graphmodel.NodeTypeFile) {
		f := n.(*graphmodel.FileNode)
		if f.FromArchive {
			archiveMember = f
		}
	}
	require.NotNil(t, archiveMember)
	assert.Equal(t, jarPath, archiveMember.SourceArchivePath)
	assert.Equal(t, "com/x/Y.class", archiveMember.ArchiveEntryPath)
}

func writeTestJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
