package graphmodel

// ClassKind enumerates the Java type declarations a ClassNode can stand
// for.
type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// SourceOrigin records whether a ClassNode was collected from a .java
// source file or a compiled .class binary. When both exist for the same
// FQN, source wins (§8 boundary behavior).
type SourceOrigin string

const (
	SourceOriginSource SourceOrigin = "source"
	SourceOriginBinary SourceOrigin = "binary"
)

const defaultPackageID = "(default)"

// ClassNode represents a Java class, interface, enum, annotation type, or
// record. id is the fully-qualified name.
type ClassNode struct {
	Node

	SimpleName     string
	PackageName    string
	ClassKind      ClassKind
	SourceOrigin   SourceOrigin
	ProjectFileID  string // id of the backing FileNode, if any
	SourceFilePath string

	MethodCount int
	FieldCount  int
	Cyclomatic  float64
	WMC         float64 // weighted methods per class
	Ca          int     // afferent coupling
	Ce          int     // efferent coupling
}

// NewClassNode creates a ClassNode for fully-qualified name fqn.
func NewClassNode(fqn, simpleName, packageName string, kind ClassKind, origin SourceOrigin) *ClassNode {
	return &ClassNode{
		Node:         NewNode(fqn, NodeTypeClass, simpleName),
		SimpleName:   simpleName,
		PackageName:  packageName,
		ClassKind:    kind,
		SourceOrigin: origin,
	}
}

// IsInDefaultPackage reports whether this class belongs to the unnamed
// Java package.
func (c *ClassNode) IsInDefaultPackage() bool {
	return c.PackageName == ""
}

// EffectivePackageID returns the id of the PackageNode that should contain
// this class: the package name itself, or the sentinel "(default)" id for
// classes with no package.
func (c *ClassNode) EffectivePackageID() string {
	if c.IsInDefaultPackage() {
		return defaultPackageID
	}
	return c.PackageName
}
