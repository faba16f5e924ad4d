package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sleroy/java-architecture-analyzer/internal/collector"
	"github.com/sleroy/java-architecture-analyzer/internal/config"
	"github.com/sleroy/java-architecture-analyzer/internal/discovery"
	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/inspectorreg"
	"github.com/sleroy/java-architecture-analyzer/internal/logging"
	"github.com/sleroy/java-architecture-analyzer/internal/nodetype"
	"github.com/sleroy/java-architecture-analyzer/internal/project"
	"github.com/sleroy/java-architecture-analyzer/internal/repo"
	"github.com/sleroy/java-architecture-analyzer/internal/store"
)

// AnalysisEngine is the orchestration entry point (§6 outbound
// contract): it wires discovery, collection, the multi-pass executor,
// and persistence into the single analyzeProject call collaborators use.
type AnalysisEngine struct {
	Config     *config.Config
	Registry   *inspectorreg.Registry
	Store      store.Store
	NodeTypes  *nodetype.Registry
	Collectors []collector.ClassNodeCollector

	logger *logging.Logger
}

// New creates an AnalysisEngine. store may be nil for callers that never
// intend to persist (e.g. one-shot analysis/reporting without a
// configured backend); NodeTypes defaults to nodetype.NewDefaultRegistry
// when nil. Logging defaults to a stdout-only debug logger so library
// callers (and tests) never have a logs/ directory appear under their
// working directory as a side effect of constructing an engine; cmd
// front-ends that want file-backed logging call logging.Initialize
// themselves and are unaffected by this default.
func New(cfg *config.Config, registry *inspectorreg.Registry, s store.Store, nodeTypes *nodetype.Registry, collectors []collector.ClassNodeCollector) *AnalysisEngine {
	if nodeTypes == nil {
		nodeTypes = nodetype.NewDefaultRegistry()
	}
	logger, _ := logging.NewLogger(logging.DebugConfig())
	return &AnalysisEngine{
		Config:     cfg,
		Registry:   registry,
		Store:      s,
		NodeTypes:  nodeTypes,
		Collectors: collectors,
		logger:     logger.With("component", "engine.AnalysisEngine"),
	}
}

// Result is what AnalyzeProject returns alongside the Project: the graph
// it produced and the execution profile accumulated across phases 3/4.
type Result struct {
	Project *project.Project
	Graph   *repo.GraphRepository
	Profile *Profile
	Walk    *discovery.WalkResult
}

// AnalyzeProject runs the full phase pipeline (1a -> 1b -> 1c -> 2 -> 3
// -> 4 -> save, §5 ordering) against projectPath. requestedInspectors, if
// non-empty, restricts phases 3/4 to that subset by name; maxPasses
// bounds each phase's fixed-point loop; packageFilters tags every
// collected class whose package name has none of the given prefixes as
// "excluded.packageFilter", and phase 4 skips those classes (empty means
// no filtering).
func (e *AnalysisEngine) AnalyzeProject(ctx context.Context, projectPath string, requestedInspectors []string, maxPasses int, packageFilters []string) (*Result, error) {
	if projectPath == "" {
		return nil, apperrors.ConfigError("projectPath must not be empty")
	}
	if maxPasses <= 0 {
		maxPasses = 5
	}

	var (
		p   *project.Project
		g   *repo.GraphRepository
		err error
	)

	if e.Store != nil && project.Exists(projectPath) {
		p, g, err = project.Load(ctx, projectPath, e.Store, e.NodeTypes)
		if err != nil {
			e.logger.Warn("failed to load prior project, starting fresh", "path", projectPath, "error", err)
			p, g = e.fresh(projectPath)
		}
	} else {
		p, g = e.fresh(projectPath)
	}

	walkResult, err := e.runDiscovery(ctx, projectPath, g)
	if err != nil {
		return nil, err
	}

	if err := e.runCollection(g, packageFilters); err != nil {
		return nil, err
	}

	profile := NewProfile()
	executor := NewExecutor(profile, e.logger)

	fileInspectors := e.selectInspectors(inspector.TargetFile, requestedInspectors)
	executor.RunPhase("phase3_file_inspectors", maxPasses, func() []graphmodel.GraphNode {
		return fileNodesOf(g)
	}, fileInspectors)

	classInspectors := e.selectInspectors(inspector.TargetClass, requestedInspectors)
	executor.RunPhase("phase4_class_inspectors", maxPasses, func() []graphmodel.GraphNode {
		return classNodesOf(g)
	}, classInspectors)

	p.Touch()

	if e.Store != nil {
		if err := project.Save(ctx, p, g, e.Store); err != nil {
			return nil, err
		}
	}

	return &Result{Project: p, Graph: g, Profile: profile, Walk: walkResult}, nil
}

func (e *AnalysisEngine) fresh(projectPath string) (*project.Project, *repo.GraphRepository) {
	return project.New(filepath.Base(projectPath), projectPath), repo.NewGraphRepository()
}

func (e *AnalysisEngine) runDiscovery(ctx context.Context, projectPath string, g *repo.GraphRepository) (*discovery.WalkResult, error) {
	analysisDir := ".analysis"
	var ignorePatterns []string
	var cache discovery.DigestCache = discovery.NoopDigestCache{}

	if e.Config != nil {
		if e.Config.AnalysisDir != "" {
			analysisDir = e.Config.AnalysisDir
		}
		ignorePatterns = e.Config.Discovery.ExtraIgnores
		if url := e.Config.Cache.SharedCacheURL; url != "" {
			if c, cerr := discovery.NewRedisDigestCache(ctx, url); cerr == nil {
				cache = c
				defer c.Close()
			} else {
				e.logger.Warn("shared digest cache unavailable, extracting every archive", "error", cerr)
			}
		} else if path := e.Config.Cache.LocalDigestDB; path != "" {
			if c, cerr := discovery.NewBoltDigestCache(path); cerr == nil {
				cache = c
				defer c.Close()
			} else {
				e.logger.Warn("local digest cache unavailable, extracting every archive", "error", cerr)
			}
		}
	}

	ignore := discovery.NewIgnoreFilter(ignorePatterns)
	extraction := discovery.NewExtractionManager(projectPath, analysisDir, cache)

	detectors := e.fileDetectors()
	walker := discovery.NewWalker(projectPath, ignore, extraction, detectors)

	result, err := walker.Walk(ctx, g)
	if err != nil {
		return nil, apperrors.DiscoveryError(err, "phase 1 walk failed")
	}
	return result, nil
}

// fileDetectors returns every registered inspector that also satisfies
// inspector.FileDetector and is targeted at FILE or ANY — phase 1's
// detector set is a subset of the full inspector registry, run once per
// file during the walk rather than through the executor's pass loop.
func (e *AnalysisEngine) fileDetectors() []inspector.FileDetector {
	if e.Registry == nil {
		return nil
	}
	var out []inspector.FileDetector
	for _, insp := range e.Registry.ForTargetKind(inspector.TargetFile) {
		if fd, ok := insp.(inspector.FileDetector); ok {
			out = append(out, fd)
		}
	}
	return out
}

func (e *AnalysisEngine) runCollection(g *repo.GraphRepository, packageFilters []string) error {
	ctx := collector.NewCollectionContext(g)
	for _, file := range ctx.Files.All() {
		for _, c := range e.Collectors {
			if !c.CanCollect(file) {
				continue
			}
			if err := c.Collect(file, ctx); err != nil {
				file.SetError(fmt.Sprintf("%s: %v", c.Name(), err))
				e.logger.Warn("class collection failed", "collector", c.Name(), "file", file.ID(), "error", err)
			}
			break // only the first collector that accepts a file collects it
		}
	}

	if len(packageFilters) > 0 {
		applyPackageFilters(ctx, packageFilters)
	}
	return nil
}

// applyPackageFilters tags every ClassNode outside the requested package
// prefixes as excluded, rather than deleting it: filtering narrows which
// class nodes phase 4 schedules inspectors over (see classNodesOf), it
// never discards data the repository already owns.
func applyPackageFilters(ctx collector.CollectionContext, prefixes []string) {
	for _, class := range ctx.Classes.All() {
		if !matchesAnyPrefix(class.PackageName, prefixes) {
			class.EnableTag("excluded.packageFilter")
		}
	}
}

func matchesAnyPrefix(pkg string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if pkg == prefix || (len(pkg) > len(prefix) && pkg[:len(prefix)] == prefix && pkg[len(prefix)] == '.') {
			return true
		}
	}
	return false
}

// selectInspectors narrows kind-targeted inspectors to requestedNames
// when non-empty, preserving registration order (§5 ordering guarantee).
func (e *AnalysisEngine) selectInspectors(kind inspector.TargetKind, requestedNames []string) []inspector.Inspector {
	if e.Registry == nil {
		return nil
	}
	all := e.Registry.ForTargetKind(kind)
	if len(requestedNames) == 0 {
		return all
	}

	requested := make(map[string]struct{}, len(requestedNames))
	for _, n := range requestedNames {
		requested[n] = struct{}{}
	}

	out := make([]inspector.Inspector, 0, len(all))
	for _, insp := range all {
		if _, ok := requested[insp.Name()]; ok {
			out = append(out, insp)
		}
	}
	return out
}

func fileNodesOf(g *repo.GraphRepository) []graphmodel.GraphNode {
	nodes := g.GetNodesByType(graphmodel.NodeTypeFile)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return nodes
}

func classNodesOf(g *repo.GraphRepository) []graphmodel.GraphNode {
	all := g.GetNodesByType(graphmodel.NodeTypeClass)
	nodes := make([]graphmodel.GraphNode, 0, len(all))
	for _, n := range all {
		if !n.HasTag("excluded.packageFilter") {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return nodes
}
