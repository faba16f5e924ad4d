package graphmodel

// ImportedClassNode represents an external, fully-qualified class name
// that some ClassNode in this project references but that does not itself
// have a ClassNode (e.g. a JDK or third-party library class). It is
// created on demand by inspectors resolving import/reference edges.
type ImportedClassNode struct {
	Node

	FQN string
}

// NewImportedClassNode creates an ImportedClassNode for the given external
// fully-qualified name.
func NewImportedClassNode(fqn string) *ImportedClassNode {
	return &ImportedClassNode{
		Node: NewNode(fqn, NodeTypeImportedClass, fqn),
		FQN:  fqn,
	}
}
