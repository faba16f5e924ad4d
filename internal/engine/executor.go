// Package engine implements the multi-pass executor (C9) and the
// execution profile it accumulates (C10): a bounded fixed-point loop over
// a typed item collection, generalizing the teacher's single-sweep
// BaseAgent.Analyze call pattern into the tag-driven scheduling model
// SPEC_FULL.md requires.
package engine

import (
	"time"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
	"github.com/sleroy/java-architecture-analyzer/internal/logging"
)

// PhaseResult is what one RunPhase invocation reports back to the
// orchestrator: whether the phase reached a fixed point and how many
// passes it took.
type PhaseResult struct {
	Converged bool
	PassesRun int
}

// Executor runs the bounded fixed-point loop described in the pass
// algorithm: visit every item in the supplier's order, apply every
// inspector still "active" for the phase, prune from the active set every
// inspector that fired during a pass, and stop at convergence (a pass
// that processes no item) or at the pass ceiling.
type Executor struct {
	Profile *Profile

	// UseTracking gates the lastExecutedAt up-to-date skip (step 1 of the
	// ItemAnalyzer contract). Re-analyze flows that want every inspector
	// to re-run unconditionally set this false.
	UseTracking bool

	logger *logging.Logger
}

// NewExecutor creates an Executor sharing profile across every phase it
// runs, so a caller can inspect cumulative statistics after phase 3 and
// phase 4 have both completed. A nil logger falls back to a stdout-only
// debug logger rather than panicking, so tests that build an Executor
// directly don't need to wire one up.
func NewExecutor(profile *Profile, logger *logging.Logger) *Executor {
	if logger == nil {
		logger, _ = logging.NewLogger(logging.DebugConfig())
	}
	return &Executor{
		Profile:     profile,
		UseTracking: true,
		logger:      logger.With("component", "engine.Executor"),
	}
}

// RunPhase drives the pass algorithm for one phase. supplier is called at
// the start of every pass and must return the current item collection
// (a fresh call, since phase 3/4 inspectors may create new nodes
// mid-pass — e.g. ImportedClassNode). inspectors is the full candidate
// list for this phase; RunPhase narrows it to active_inspectors
// internally per invariant (I).
func (e *Executor) RunPhase(label string, maxPasses int, supplier func() []graphmodel.GraphNode, inspectors []inspector.Inspector) PhaseResult {
	phaseStart := time.Now()
	phaseProfile := e.Profile.phase(label)

	active := make([]inspector.Inspector, len(inspectors))
	copy(active, inspectors)

	pass := 1
	converged := false

	for {
		passStart := time.Now()
		processed := 0
		triggeredNames := make(map[string]struct{})

		items := supplier()
		phaseProfile.ItemsScanned += len(items)

		for _, item := range items {
			fired := e.analyzeItem(item, active, passStart, pass)
			if len(fired) > 0 {
				processed++
				phaseProfile.ItemsProcessed++
				for name := range fired {
					triggeredNames[name] = struct{}{}
				}
			}
		}

		e.logger.Debug("pass complete", "phase", label, "pass", pass, "processed", processed, "active", len(active))

		if processed == 0 {
			converged = true
			break
		}

		// Invariant (I): prune an inspector once every node it could
		// touch this pass has been visited and it fired at least once —
		// it only needs re-running when newly enabled by a fresh tag.
		active = pruneInactive(active, triggeredNames)

		if pass >= maxPasses {
			break
		}
		pass++
	}

	phaseProfile.WallTime += time.Since(phaseStart)
	phaseProfile.PassesRun = pass
	phaseProfile.Converged = converged

	return PhaseResult{Converged: converged, PassesRun: pass}
}

// pruneInactive removes every inspector whose name is in triggered from
// active, preserving relative order.
func pruneInactive(active []inspector.Inspector, triggered map[string]struct{}) []inspector.Inspector {
	out := active[:0:0]
	for _, insp := range active {
		if _, fired := triggered[insp.Name()]; fired {
			continue
		}
		out = append(out, insp)
	}
	return out
}

// analyzeItem implements the ItemAnalyzer contract for one node against
// the given inspector list, returning the set of inspector names that
// fired (i.e. were not skipped) on this node during this pass.
func (e *Executor) analyzeItem(node graphmodel.GraphNode, active []inspector.Inspector, passStart time.Time, pass int) map[string]struct{} {
	fired := make(map[string]struct{})

	for _, insp := range active {
		name := insp.Name()
		base := node.Base()

		if e.UseTracking && base.IsInspectorUpToDate(name) {
			continue
		}
		if !insp.CanProcess(node) {
			continue
		}

		callStart := time.Now()
		decorator := inspector.DecoratorFor(node)
		err := safeInspect(insp, node, decorator)
		dur := time.Since(callStart)

		if err != nil {
			wrapped := apperrors.InspectorError(err, name, node.ID())
			decorator.Error(wrapped.Error())
			e.logger.Warn("inspector failed", "inspector", name, "node", node.ID(), "error", err)
		}

		base.MarkInspectorExecuted(name, passStart)
		e.Profile.recordInspectorCall(name, pass, dur, err != nil)
		fired[name] = struct{}{}
	}

	return fired
}

// safeInspect calls insp.Inspect, converting a panic inside inspector
// code into an error so one misbehaving inspector can never abort the
// pass (§7 exception policy: isolation is per node, per inspector).
func safeInspect(insp inspector.Inspector, node graphmodel.GraphNode, decorator inspector.NodeDecorator) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.InternalErrorf("inspector %q panicked: %v", insp.Name(), r)
		}
	}()
	return insp.Inspect(node, decorator)
}
