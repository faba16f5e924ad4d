package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleroy/java-architecture-analyzer/internal/collector"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/inspectorreg"
)

// stubParser returns a fixed parse result regardless of the bytes it is
// handed, standing in for the tree-sitter parser in these orchestration
// tests.
type stubParser struct {
	result collector.ParsedSource
}

func (s stubParser) ParseSource(src []byte) (collector.ParsedSource, error) {
	return s.result, nil
}

// javaSourceDetector is the phase-1 FileDetector every .java file must
// pass through before a collector will pick it up (JavaSourceCollector
// only collects files already tagged "java.is_source").
type javaSourceDetector struct {
	*inspector.Base
}

func newJavaSourceDetector() *javaSourceDetector {
	return &javaSourceDetector{Base: inspector.NewBase("JavaSourceDetector", inspector.TargetFile, inspector.Dependencies{})}
}

func (d *javaSourceDetector) Supports(node graphmodel.GraphNode) bool {
	file, ok := node.(*graphmodel.FileNode)
	return ok && file.IsJavaSource()
}

func (d *javaSourceDetector) CanProcess(node graphmodel.GraphNode) bool { return d.Supports(node) }

func (d *javaSourceDetector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	dec.EnableTag("java.is_source")
	dec.EnableTag("java.detected")
	return nil
}

// classTagInspector is a phase-4 ClassNode inspector used to confirm
// AnalyzeProject also runs the class-targeted pass over whatever the
// collector produced.
type classTagInspector struct {
	*inspector.Base
}

func newClassTagInspector() *classTagInspector {
	return &classTagInspector{Base: inspector.NewBase("PackageCollector", inspector.TargetClass, inspector.Dependencies{})}
}

func (c *classTagInspector) Supports(node graphmodel.GraphNode) bool { return true }

func (c *classTagInspector) CanProcess(node graphmodel.GraphNode) bool {
	return !node.HasTag(c.Name() + ".done")
}

func (c *classTagInspector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	class := node.(*graphmodel.ClassNode)
	dec.SetProperty("java.fullyQualifiedName", class.ID())
	dec.EnableTag(c.Name() + ".done")
	return nil
}

func TestAnalyzeProject_SingleFileProject(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "Main.java")
	require.NoError(t, os.WriteFile(mainPath, []byte("package demo;\npublic class Main {}\n"), 0o644))

	registry := inspectorreg.NewRegistry()
	require.NoError(t, registry.Register(newJavaSourceDetector()))
	require.NoError(t, registry.Register(newClassTagInspector()))

	parser := stubParser{result: collector.ParsedSource{
		PackageName: "demo",
		Types:       []collector.ParsedType{{SimpleName: "Main", Kind: "class"}},
	}}
	collectors := []collector.ClassNodeCollector{collector.NewJavaSourceCollector(parser)}

	eng := New(nil, registry, nil, nil, collectors)

	result, err := eng.AnalyzeProject(context.Background(), dir, nil, 5, nil)
	require.NoError(t, err)

	fileNode, ok := result.Graph.GetNodeById(mainPath)
	require.True(t, ok)
	file := fileNode.(*graphmodel.FileNode)
	assert.True(t, file.HasTag("java.is_source"))
	assert.True(t, file.HasTag("java.detected"))

	classNode, ok := result.Graph.GetNodeById("demo.Main")
	require.True(t, ok)
	class := classNode.(*graphmodel.ClassNode)
	assert.Equal(t, "demo", class.PackageName)
	assert.Equal(t, "Main", class.SimpleName)
	assert.Equal(t, graphmodel.ClassKindClass, class.ClassKind)
	assert.Equal(t, graphmodel.SourceOriginSource, class.SourceOrigin)
	fqn, _ := class.Property("java.fullyQualifiedName")
	assert.Equal(t, "demo.Main", fqn)

	pkgNode, ok := result.Graph.GetNodeById("demo")
	require.True(t, ok)
	assert.Equal(t, graphmodel.NodeTypePackage, pkgNode.NodeType())

	edges := result.Graph.GetEdgesByType(graphmodel.EdgeTypeContains)
	require.Len(t, edges, 1)
	assert.Equal(t, "demo", edges[0].SourceID)
	assert.Equal(t, "demo.Main", edges[0].TargetID)

	assert.LessOrEqual(t, result.Profile.Phases["phase3_file_inspectors"].PassesRun, 2)
	assert.LessOrEqual(t, result.Profile.Phases["phase4_class_inspectors"].PassesRun, 2)
}

func TestAnalyzeProject_PackageFilterExcludesNonMatchingClasses(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "Main.java")
	require.NoError(t, os.WriteFile(mainPath, []byte("package other;\npublic class Main {}\n"), 0o644))

	registry := inspectorreg.NewRegistry()
	require.NoError(t, registry.Register(newJavaSourceDetector()))

	parser := stubParser{result: collector.ParsedSource{
		PackageName: "other",
		Types:       []collector.ParsedType{{SimpleName: "Main", Kind: "class"}},
	}}
	collectors := []collector.ClassNodeCollector{collector.NewJavaSourceCollector(parser)}

	eng := New(nil, registry, nil, nil, collectors)
	result, err := eng.AnalyzeProject(context.Background(), dir, nil, 5, []string{"demo"})
	require.NoError(t, err)

	classNode, ok := result.Graph.GetNodeById("other.Main")
	require.True(t, ok)
	assert.True(t, classNode.HasTag("excluded.packageFilter"))
}
