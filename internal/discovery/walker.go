package discovery

import (
	"context"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"golang.org/x/sync/errgroup"
)

// DetectorTiming records one detector invocation's duration for the
// execution profile (§4.7 step 4).
type DetectorTiming struct {
	Detector string
	FileID   string
	Duration time.Duration
}

// WalkResult summarizes phase 1 (1a/1b/1c).
type WalkResult struct {
	FilesDiscovered   int
	ArchivesExtracted int
	ArchivesSkipped   int
	Errors            []error
	Timings           []DetectorTiming
}

// Walker runs the three phase-1 sub-phases: 1a filesystem scan, 1b
// physical archive extraction, 1c rescan of extracted content. File I/O
// is parallelized with golang.org/x/sync/errgroup; every write to the
// shared GraphRepository is serialized through a single writer goroutine
// fed by a channel, satisfying the concurrency model's single-writer
// requirement (§5) while still overlapping disk I/O.
type Walker struct {
	projectRoot string
	ignore      *IgnoreFilter
	extraction  *ExtractionManager
	detectors   []inspector.FileDetector
}

// NewWalker creates a Walker rooted at projectRoot.
func NewWalker(projectRoot string, ignore *IgnoreFilter, extraction *ExtractionManager, detectors []inspector.FileDetector) *Walker {
	return &Walker{projectRoot: projectRoot, ignore: ignore, extraction: extraction, detectors: detectors}
}

// candidate is one filesystem path discovered by the walk, resolved
// before any repository write.
type candidate struct {
	path         string
	relativePath string
	fromArchive  bool
	archivePath  string
	archiveEntry string
	lastModified time.Time
}

// builtCandidate is the result of running the per-candidate detector
// pipeline against a not-yet-shared FileNode instance. Everything here is
// produced concurrently; only applying it to g is left for the writer
// goroutine.
type builtCandidate struct {
	file      *graphmodel.FileNode
	isArchive bool
	timings   []DetectorTiming
}

// Walk runs phases 1a -> 1b -> 1c against g, in that strict order.
func (w *Walker) Walk(ctx context.Context, g *repo.GraphRepository) (*WalkResult, error) {
	result := &WalkResult{}

	// Phase 1a: filesystem scan.
	candidates, archives, err := w.scanFilesystem()
	if err != nil {
		return nil, apperrors.DiscoveryError(err, "scan project filesystem")
	}
	timings, errs := w.processCandidates(ctx, g, candidates)
	result.FilesDiscovered += len(candidates)
	result.Timings = append(result.Timings, timings...)
	result.Errors = append(result.Errors, errs...)

	// Phase 1b: physical extraction.
	var extracted []ExtractionResult
	for _, archivePath := range archives {
		res := w.extraction.Extract(ctx, archivePath)
		extracted = append(extracted, res)
		if res.Err != nil {
			result.Errors = append(result.Errors, res.Err)
			continue
		}
		if res.Skipped {
			result.ArchivesSkipped++
		} else {
			result.ArchivesExtracted++
		}
	}

	// Phase 1c: rescan for extracted content. Detectors run again over
	// the extracted files (they are ordinary source/binary files from
	// here on; none of them re-triggers archive extraction unless a
	// nested archive is itself a jar/war/ear/zip, which this pass does
	// not recurse into).
	var rescanCandidates []candidate
	for _, res := range extracted {
		if res.Err != nil {
			continue
		}
		for _, entry := range res.Entries {
			fullPath := filepath.Join(res.ExtractDir, entry)
			info, statErr := os.Stat(fullPath)
			if statErr != nil {
				continue
			}
			rescanCandidates = append(rescanCandidates, candidate{
				path:         fullPath,
				relativePath: entry,
				fromArchive:  true,
				archivePath:  res.ArchivePath,
				archiveEntry: entry,
				lastModified: info.ModTime(),
			})
		}
	}
	timings, errs = w.processCandidates(ctx, g, rescanCandidates)
	result.FilesDiscovered += len(rescanCandidates)
	result.Timings = append(result.Timings, timings...)
	result.Errors = append(result.Errors, errs...)

	return result, nil
}

func (w *Walker) scanFilesystem() ([]candidate, []string, error) {
	var candidates []candidate
	var archives []string

	err := filepath.WalkDir(w.projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.projectRoot, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if w.ignore.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if IsArchive(path) {
			archives = append(archives, path)
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		candidates = append(candidates, candidate{
			path: path, relativePath: filepath.ToSlash(rel), lastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return candidates, archives, nil
}

// processCandidates applies the per-candidate detector pipeline
// (§4.7 steps 2-4) to every candidate. FileNode construction and detector
// dispatch (the actual per-candidate work, and the only part an I/O-free
// detector spends real time in) run concurrently in the errgroup below;
// the writer goroutine only ever calls GetOrCreateNode and applies the
// archive tag, keeping the shared GraphRepository's single-writer
// invariant (§5) without also serializing the work that doesn't touch it.
func (w *Walker) processCandidates(ctx context.Context, g *repo.GraphRepository, candidates []candidate) ([]DetectorTiming, []error) {
	built := make(chan builtCandidate, len(candidates))
	var allTimings []DetectorTiming
	var allErrors []error

	done := make(chan struct{})
	go func() {
		defer close(done)
		for b := range built {
			node, _ := g.GetOrCreateNode(b.file)
			fileNode, ok := node.(*graphmodel.FileNode)
			if !ok || fileNode != b.file {
				// A node already occupied this id (typically one
				// rehydrated from a saved project); the existing node is
				// kept, and the detector work done above against the
				// discarded instance never gets applied.
				continue
			}
			if b.isArchive {
				fileNode.EnableTag("archive")
			}
			allTimings = append(allTimings, b.timings...)
		}
	}()

	group, gctx := errgroup.WithContext(ctx)
	for _, c := range candidates {
		c := c
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			built <- w.buildCandidate(c)
			return nil
		})
	}

	err := group.Wait()
	close(built)
	<-done

	if err != nil {
		allErrors = append(allErrors, apperrors.DiscoveryError(err, "phase 1 file processing"))
	}
	return allTimings, allErrors
}

// buildCandidate constructs c's FileNode and runs every supporting
// detector against it. None of this touches the shared GraphRepository,
// so it is safe to run concurrently across candidates.
func (w *Walker) buildCandidate(c candidate) builtCandidate {
	fileName := filepath.Base(c.path)
	ext := filepath.Ext(fileName)

	id := c.path

	file := graphmodel.NewFileNode(id, c.relativePath, fileName, ext)
	file.LastFsModified = c.lastModified
	if c.fromArchive {
		file.MarkFromArchive(c.archivePath, c.archiveEntry)
		file.EnableTag("fromArchive")
	}

	var timings []DetectorTiming
	for _, detector := range w.detectors {
		if !detector.Supports(file) {
			continue
		}
		start := time.Now()
		decorator := inspector.DecoratorFor(file)
		_ = detector.Inspect(file, decorator)
		timings = append(timings, DetectorTiming{Detector: detector.Name(), FileID: file.ID(), Duration: time.Since(start)})
	}

	return builtCandidate{file: file, isArchive: IsArchive(c.path), timings: timings}
}
