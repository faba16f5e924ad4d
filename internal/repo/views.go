package repo

import "github.com/sleroy/java-architecture-analyzer/internal/graphmodel"

// FileRepository is a typed view over GraphRepository for FileNode
// access; it owns no storage of its own.
type FileRepository struct{ g *GraphRepository }

// NewFileRepository wraps g.
func NewFileRepository(g *GraphRepository) *FileRepository { return &FileRepository{g: g} }

// GetOrCreate retrieves or inserts a FileNode by id.
func (fr *FileRepository) GetOrCreate(node *graphmodel.FileNode) (*graphmodel.FileNode, error) {
	n, err := fr.g.GetOrCreateNode(node)
	if err != nil {
		return nil, err
	}
	return n.(*graphmodel.FileNode), nil
}

// All returns every FileNode in the repository.
func (fr *FileRepository) All() []*graphmodel.FileNode {
	nodes := fr.g.GetNodesByType(graphmodel.NodeTypeFile)
	out := make([]*graphmodel.FileNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.(*graphmodel.FileNode))
	}
	return out
}

// ClassRepository is a typed view over GraphRepository for ClassNode
// access.
type ClassRepository struct{ g *GraphRepository }

// NewClassRepository wraps g.
func NewClassRepository(g *GraphRepository) *ClassRepository { return &ClassRepository{g: g} }

// GetOrCreateClassByFqn retrieves the existing ClassNode for fqn, or
// creates one via factory if absent.
func (cr *ClassRepository) GetOrCreateClassByFqn(fqn string, factory func() *graphmodel.ClassNode) (*graphmodel.ClassNode, error) {
	if existing, ok := cr.g.FindClassByFqn(fqn); ok {
		return existing.(*graphmodel.ClassNode), nil
	}
	n, err := cr.g.GetOrCreateNode(factory())
	if err != nil {
		return nil, err
	}
	return n.(*graphmodel.ClassNode), nil
}

// FindByFqn looks up a ClassNode by fully-qualified name.
func (cr *ClassRepository) FindByFqn(fqn string) (*graphmodel.ClassNode, bool) {
	n, ok := cr.g.FindClassByFqn(fqn)
	if !ok {
		return nil, false
	}
	return n.(*graphmodel.ClassNode), true
}

// All returns every ClassNode in the repository.
func (cr *ClassRepository) All() []*graphmodel.ClassNode {
	nodes := cr.g.GetNodesByType(graphmodel.NodeTypeClass)
	out := make([]*graphmodel.ClassNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.(*graphmodel.ClassNode))
	}
	return out
}

// PackageRepository is a typed view over GraphRepository for
// PackageNode access.
type PackageRepository struct{ g *GraphRepository }

// NewPackageRepository wraps g.
func NewPackageRepository(g *GraphRepository) *PackageRepository { return &PackageRepository{g: g} }

// GetOrCreatePackageByName retrieves or creates the PackageNode with the
// given name (use graphmodel.DefaultPackageID() for the unnamed package).
func (pr *PackageRepository) GetOrCreatePackageByName(name string) (*graphmodel.PackageNode, error) {
	if name == "" {
		name = graphmodel.DefaultPackageID()
	}
	n, err := pr.g.GetOrCreateNode(graphmodel.NewPackageNode(name))
	if err != nil {
		return nil, err
	}
	return n.(*graphmodel.PackageNode), nil
}
