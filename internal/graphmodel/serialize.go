package graphmodel

// SerializableProperties returns node's property bag augmented with the
// type-specific fields ClassNode/FileNode/MethodNode carry as plain struct
// fields rather than properties (PackageName, ClassKind, SourceOrigin, ...
// for ClassNode; FileName, FileExtension, ... for FileNode; OwnerClassID,
// Signature for MethodNode). Those fields are mutated directly by
// constructors and, for ClassNode, by the collector package's
// post-construction "source wins" logic, so SetProperty is never a single
// choke point for them. Folding them in here, at the moment of
// serialization, is the one place guaranteed to see their final value
// regardless of how they were last set.
//
// Every caller that persists or exports a node's properties (project.Save,
// project.GraphSnapshotJSON, graphexport.Export) must go through this
// rather than node.Properties() directly, or these fields silently drop
// out of whatever it produces. The keys written here must match exactly
// what classNodeFactory/fileNodeFactory read back (internal/nodetype).
func SerializableProperties(node GraphNode) map[string]interface{} {
	props := node.Properties()
	switch n := node.(type) {
	case *ClassNode:
		props["simpleName"] = n.SimpleName
		props["packageName"] = n.PackageName
		props["classKind"] = string(n.ClassKind)
		props["sourceOrigin"] = string(n.SourceOrigin)
		props["projectFileId"] = n.ProjectFileID
		props["sourceFilePath"] = n.SourceFilePath
	case *FileNode:
		props["fileName"] = n.FileName
		props["fileExtension"] = n.FileExtension
		props["relativePath"] = n.RelativePath
		props["fromArchive"] = n.FromArchive
		if n.FromArchive {
			props["sourceArchivePath"] = n.SourceArchivePath
			props["archiveEntryPath"] = n.ArchiveEntryPath
		}
	case *MethodNode:
		props["ownerClassId"] = n.OwnerClassID
		props["signature"] = n.Signature
	}
	return props
}
