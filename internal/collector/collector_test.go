package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser returns a fixed ParsedSource regardless of input, letting
// collector tests exercise the ClassNodeCollector contract without
// depending on internal/javaparse.
type stubParser struct {
	result ParsedSource
	err    error
}

func (s stubParser) ParseSource(src []byte) (ParsedSource, error) {
	return s.result, s.err
}

func writeTempFile(t *testing.T, dir, name string, content string) *graphmodel.FileNode {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return graphmodel.NewFileNode(path, name, name, filepath.Ext(name))
}

func findPackageByName(t *testing.T, g *repo.GraphRepository, id string) *graphmodel.PackageNode {
	t.Helper()
	n, ok := g.GetNodeById(id)
	require.True(t, ok, "package %q not found", id)
	return n.(*graphmodel.PackageNode)
}

func hasContainsEdge(g *repo.GraphRepository, sourceID, targetID string) bool {
	for _, e := range g.GetEdgesByType(graphmodel.EdgeTypeContains) {
		if e.SourceID == sourceID && e.TargetID == targetID {
			return true
		}
	}
	return false
}

func TestJavaSourceCollector_CreatesClassAndPackage(t *testing.T) {
	dir := t.TempDir()
	file := writeTempFile(t, dir, "Widget.java", "package com.acme; class Widget {}")

	g := repo.NewGraphRepository()
	ctx := NewCollectionContext(g)

	parser := stubParser{result: ParsedSource{
		PackageName: "com.acme",
		Types:       []ParsedType{{SimpleName: "Widget", Kind: "class"}},
	}}
	c := NewJavaSourceCollector(parser)

	file.EnableTag("java.is_source")
	require.True(t, c.CanCollect(file))
	require.NoError(t, c.Collect(file, ctx))

	class, ok := ctx.Classes.FindByFqn("com.acme.Widget")
	require.True(t, ok)
	assert.Equal(t, "Widget", class.SimpleName)
	assert.Equal(t, graphmodel.ClassKindClass, class.ClassKind)
	assert.Equal(t, graphmodel.SourceOriginSource, class.SourceOrigin)
	assert.Equal(t, file.ID(), class.ProjectFileID)

	pkg := findPackageByName(t, g, "com.acme")
	assert.True(t, hasContainsEdge(g, pkg.ID(), class.ID()))
}

func TestJavaSourceCollector_SourceWinsOverExistingBinary(t *testing.T) {
	dir := t.TempDir()
	binFile := writeTempFile(t, dir, "Widget.class", "")
	srcFile := writeTempFile(t, dir, "Widget.java", "package com.acme; class Widget {}")

	g := repo.NewGraphRepository()
	ctx := NewCollectionContext(g)

	binParser := stubParser{result: ParsedSource{
		PackageName: "com.acme",
		Types:       []ParsedType{{SimpleName: "Widget", Kind: "class"}},
	}}
	binCollector := NewJavaBinaryCollector(binParser)
	require.NoError(t, binCollector.Collect(binFile, ctx))

	class, ok := ctx.Classes.FindByFqn("com.acme.Widget")
	require.True(t, ok)
	assert.Equal(t, graphmodel.SourceOriginBinary, class.SourceOrigin)

	srcCollector := NewJavaSourceCollector(binParser)
	require.NoError(t, srcCollector.Collect(srcFile, ctx))

	class, ok = ctx.Classes.FindByFqn("com.acme.Widget")
	require.True(t, ok)
	assert.Equal(t, graphmodel.SourceOriginSource, class.SourceOrigin)
	assert.Equal(t, srcFile.ID(), class.SourceFilePath)
}

func TestJavaSourceCollector_DefaultPackage(t *testing.T) {
	dir := t.TempDir()
	file := writeTempFile(t, dir, "Loose.java", "class Loose {}")

	g := repo.NewGraphRepository()
	ctx := NewCollectionContext(g)

	parser := stubParser{result: ParsedSource{
		Types: []ParsedType{{SimpleName: "Loose", Kind: "class"}},
	}}
	c := NewJavaSourceCollector(parser)
	require.NoError(t, c.Collect(file, ctx))

	class, ok := ctx.Classes.FindByFqn("Loose")
	require.True(t, ok)
	assert.True(t, class.IsInDefaultPackage())

	pkg := findPackageByName(t, g, graphmodel.DefaultPackageID())
	assert.Equal(t, graphmodel.DefaultPackageID(), pkg.ID())
}

func TestJavaBinaryCollector_DoesNotOverrideProjectFileID(t *testing.T) {
	dir := t.TempDir()
	binFile := writeTempFile(t, dir, "Widget.class", "")

	g := repo.NewGraphRepository()
	ctx := NewCollectionContext(g)

	parser := stubParser{result: ParsedSource{
		PackageName: "com.acme",
		Types:       []ParsedType{{SimpleName: "Widget", Kind: "class"}},
	}}
	c := NewJavaBinaryCollector(parser)
	require.NoError(t, c.Collect(binFile, ctx))

	class, ok := ctx.Classes.FindByFqn("com.acme.Widget")
	require.True(t, ok)
	assert.Equal(t, binFile.ID(), class.ProjectFileID)

	other := writeTempFile(t, dir, "Other.class", "")
	require.NoError(t, c.Collect(other, ctx))

	class, ok = ctx.Classes.FindByFqn("com.acme.Widget")
	require.True(t, ok)
	assert.Equal(t, binFile.ID(), class.ProjectFileID)
}
