package collector

import (
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
)

// CollectionContext provides a ClassNodeCollector the file and class
// repositories it needs; package-node creation and contains edges are
// handled by ClassNodeCollector.Collect directly against the same
// GraphRepository both views delegate to.
type CollectionContext struct {
	Files    *repo.FileRepository
	Classes  *repo.ClassRepository
	Packages *repo.PackageRepository
	Graph    *repo.GraphRepository
}

// NewCollectionContext builds a CollectionContext backed by g.
func NewCollectionContext(g *repo.GraphRepository) CollectionContext {
	return CollectionContext{
		Files:    repo.NewFileRepository(g),
		Classes:  repo.NewClassRepository(g),
		Packages: repo.NewPackageRepository(g),
		Graph:    g,
	}
}

// ClassNodeCollector inspects one FileNode and, for each type it
// discovers, ensures the corresponding ClassNode (and enclosing
// PackageNode) exist.
type ClassNodeCollector interface {
	Name() string
	CanCollect(file *graphmodel.FileNode) bool
	Collect(file *graphmodel.FileNode, ctx CollectionContext) error
}

// JavaSourceCollector collects ClassNodes from .java source files using
// an injected Parser (internal/javaparse.TreeSitterParser in production).
type JavaSourceCollector struct {
	parser Parser
}

// NewJavaSourceCollector creates a collector backed by parser.
func NewJavaSourceCollector(parser Parser) *JavaSourceCollector {
	return &JavaSourceCollector{parser: parser}
}

func (c *JavaSourceCollector) Name() string { return "JavaSourceCollector" }

func (c *JavaSourceCollector) CanCollect(file *graphmodel.FileNode) bool {
	return file.IsJavaSource() && file.HasTag("java.is_source")
}

// Collect parses file's backing source and, for each discovered type:
// 1. getOrCreateClassByFqn, 2. links projectFileId, 3. sets
// classKind/sourceOrigin/sourceFilePath, 4. ensures the enclosing
// PackageNode and a "contains" edge.
func (c *JavaSourceCollector) Collect(file *graphmodel.FileNode, ctx CollectionContext) error {
	src, err := readSource(file)
	if err != nil {
		return err
	}

	parsed, err := c.parser.ParseSource(src)
	if err != nil {
		return err
	}

	pkg, err := ctx.Packages.GetOrCreatePackageByName(parsed.PackageName)
	if err != nil {
		return err
	}

	for _, t := range parsed.Types {
		fqn := t.SimpleName
		if parsed.PackageName != "" {
			fqn = parsed.PackageName + "." + t.SimpleName
		}

		class, err := ctx.Classes.GetOrCreateClassByFqn(fqn, func() *graphmodel.ClassNode {
			return graphmodel.NewClassNode(fqn, t.SimpleName, parsed.PackageName, graphmodel.ClassKind(t.Kind), graphmodel.SourceOriginSource)
		})
		if err != nil {
			return err
		}

		// Source always wins over a prior binary collection for the
		// same FQN (§8 boundary behavior).
		if class.SourceOrigin != graphmodel.SourceOriginSource {
			class.SourceOrigin = graphmodel.SourceOriginSource
			class.SourceFilePath = file.ID()
		}
		class.ProjectFileID = file.ID()
		if class.SourceFilePath == "" {
			class.SourceFilePath = file.ID()
		}
		class.EnableTag("java.is_class")

		if _, err := ctx.Graph.GetOrCreateEdge(pkg.ID(), class.ID(), graphmodel.EdgeTypeContains); err != nil {
			return err
		}
	}

	return nil
}

// JavaBinaryCollector collects ClassNodes from .class binary files tagged
// "java.is_binary". It hands the file's bytes to the injected Parser;
// cmd/inventory wires the same tree-sitter Java parser it uses for
// sources, which does not decode compiled .class bytes. The collector
// accepts any Parser capable of producing a ParsedSource from the bytes it
// is given, so a classfile reader can be substituted without changing the
// core.
type JavaBinaryCollector struct {
	parser Parser
}

// NewJavaBinaryCollector creates a collector backed by parser.
func NewJavaBinaryCollector(parser Parser) *JavaBinaryCollector {
	return &JavaBinaryCollector{parser: parser}
}

func (c *JavaBinaryCollector) Name() string { return "JavaBinaryCollector" }

func (c *JavaBinaryCollector) CanCollect(file *graphmodel.FileNode) bool {
	return file.IsJavaBinary() && file.HasTag("java.is_binary")
}

func (c *JavaBinaryCollector) Collect(file *graphmodel.FileNode, ctx CollectionContext) error {
	src, err := readSource(file)
	if err != nil {
		return err
	}

	parsed, err := c.parser.ParseSource(src)
	if err != nil {
		return err
	}

	pkg, err := ctx.Packages.GetOrCreatePackageByName(parsed.PackageName)
	if err != nil {
		return err
	}

	for _, t := range parsed.Types {
		fqn := t.SimpleName
		if parsed.PackageName != "" {
			fqn = parsed.PackageName + "." + t.SimpleName
		}

		class, err := ctx.Classes.GetOrCreateClassByFqn(fqn, func() *graphmodel.ClassNode {
			return graphmodel.NewClassNode(fqn, t.SimpleName, parsed.PackageName, graphmodel.ClassKind(t.Kind), graphmodel.SourceOriginBinary)
		})
		if err != nil {
			return err
		}

		if class.ProjectFileID == "" {
			class.ProjectFileID = file.ID()
		}
		class.EnableTag("java.is_class")

		if _, err := ctx.Graph.GetOrCreateEdge(pkg.ID(), class.ID(), graphmodel.EdgeTypeContains); err != nil {
			return err
		}
	}

	return nil
}
