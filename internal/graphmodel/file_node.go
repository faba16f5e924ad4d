package graphmodel

import "time"

// FileNode represents a discovered file: either a plain filesystem path or
// an archive member's extracted path produced by phase 1c re-scan.
type FileNode struct {
	Node

	RelativePath   string
	FileName       string
	FileExtension  string
	LastFsModified time.Time

	// FromArchive is true when this file originated from inside a jar,
	// war, ear, or zip rather than directly from the filesystem walk.
	FromArchive       bool
	SourceArchivePath string
	ArchiveEntryPath  string
}

// NewFileNode creates a FileNode. id is conventionally the filesystem path;
// for archive members the discovery package uses the path of the extracted
// file under the extraction directory. This constructor only stores
// whatever id it is given.
func NewFileNode(id, relativePath, fileName, fileExtension string) *FileNode {
	return &FileNode{
		Node:          NewNode(id, NodeTypeFile, fileName),
		RelativePath:  relativePath,
		FileName:      fileName,
		FileExtension: fileExtension,
	}
}

// MarkFromArchive sets the archive-origin fields. It does not advance
// lastModified on its own beyond what the caller's other SetProperty
// calls already do; callers typically also tag the node (e.g.
// "fromArchive") via EnableTag.
func (f *FileNode) MarkFromArchive(sourceArchivePath, archiveEntryPath string) {
	f.FromArchive = true
	f.SourceArchivePath = sourceArchivePath
	f.ArchiveEntryPath = archiveEntryPath
}

// IsJavaSource is a convenience predicate used by detectors and
// collectors; it does not itself tag the node.
func (f *FileNode) IsJavaSource() bool {
	return f.FileExtension == ".java" || f.FileExtension == "java"
}

// IsJavaBinary reports whether the extension is a compiled class file.
func (f *FileNode) IsJavaBinary() bool {
	return f.FileExtension == ".class" || f.FileExtension == "class"
}
