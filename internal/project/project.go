// Package project implements project load/save (C11): rehydrating a
// prior analysis run from the persistence adapter plus a sidecar
// metadata file, and saving the current run back out, so repeated
// analyses of the same project behave incrementally rather than starting
// from an empty graph every time.
package project

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current on-disk metadata format version. Load
// rejects a saved file whose version does not match (§4.11 validator).
const SchemaVersion = 1

// DefaultMetadataName is the conventional filename a saved project's
// metadata is written under, relative to the project root.
const DefaultMetadataName = "projectAnalysis.json"

// timeLayout is the RFC3339 rendering used for every timestamp field in
// the metadata file.
const timeLayout = time.RFC3339Nano

// Project is the record AnalysisEngine.AnalyzeProject returns in its
// Result: identity and timestamps for one project, plus a free-form data bag for
// collaborator-defined extensions (the spec's `projectData` key-value
// bag).
type Project struct {
	ID            string
	Name          string
	Path          string
	SchemaVersion int
	CreatedAt     time.Time
	LastAnalyzed  time.Time
	Data          map[string]interface{}
}

// New creates a Project rooted at path with a fresh identity.
func New(name, path string) *Project {
	now := time.Now()
	return &Project{
		ID:            uuid.NewString(),
		Name:          name,
		Path:          path,
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		LastAnalyzed:  now,
		Data:          make(map[string]interface{}),
	}
}

// Touch refreshes LastAnalyzed to now; called after every completed
// analysis run, including ones that reused a loaded project.
func (p *Project) Touch() {
	p.LastAnalyzed = time.Now()
}
