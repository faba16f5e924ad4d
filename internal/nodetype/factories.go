package nodetype

import (
	"path/filepath"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
)

func fileNodeFactory(stored StoredNode, projectRoot string) (graphmodel.GraphNode, error) {
	fileName := stringProp(stored, "fileName")
	fileExtension := stringProp(stored, "fileExtension")

	var relativePath string
	fromArchive := boolProp(stored, "fromArchive")
	if fromArchive {
		// File-origin quirk: an archive member's path belongs to a
		// synthetic archive filesystem, so relativePath is restored
		// from the stored property rather than recomputed by
		// relativizing against projectRoot.
		relativePath = stringProp(stored, "relativePath")
	} else if projectRoot != "" {
		if rel, err := filepath.Rel(projectRoot, stored.ID); err == nil {
			relativePath = rel
		} else {
			relativePath = stringProp(stored, "relativePath")
		}
	} else {
		relativePath = stringProp(stored, "relativePath")
	}

	f := graphmodel.NewFileNode(stored.ID, relativePath, fileName, fileExtension)
	if fromArchive {
		f.MarkFromArchive(stringProp(stored, "sourceArchivePath"), stringProp(stored, "archiveEntryPath"))
	}

	hydrate(&f.Node, stored)
	return f, nil
}

func classNodeFactory(stored StoredNode, _ string) (graphmodel.GraphNode, error) {
	simpleName := stringProp(stored, "simpleName")
	packageName := stringProp(stored, "packageName")
	kind := graphmodel.ClassKind(stringProp(stored, "classKind"))
	if kind == "" {
		kind = graphmodel.ClassKindClass
	}
	origin := graphmodel.SourceOrigin(stringProp(stored, "sourceOrigin"))
	if origin == "" {
		origin = graphmodel.SourceOriginSource
	}

	c := graphmodel.NewClassNode(stored.ID, simpleName, packageName, kind, origin)
	c.ProjectFileID = stringProp(stored, "projectFileId")
	c.SourceFilePath = stringProp(stored, "sourceFilePath")

	hydrate(&c.Node, stored)
	return c, nil
}

func packageNodeFactory(stored StoredNode, _ string) (graphmodel.GraphNode, error) {
	p := graphmodel.NewPackageNode(stored.ID)
	hydrate(&p.Node, stored)
	return p, nil
}

func importedClassNodeFactory(stored StoredNode, _ string) (graphmodel.GraphNode, error) {
	ic := graphmodel.NewImportedClassNode(stored.ID)
	hydrate(&ic.Node, stored)
	return ic, nil
}

func methodNodeFactory(stored StoredNode, _ string) (graphmodel.GraphNode, error) {
	ownerClassID := stringProp(stored, "ownerClassId")
	signature := stringProp(stored, "signature")
	m := graphmodel.NewMethodNode(ownerClassID, signature)
	hydrate(&m.Node, stored)
	return m, nil
}
