// Package inspector defines the Inspector contract (C5): a bounded
// analyzer over one node variant, plus the NodeDecorator capability
// inspectors use to mutate nodes. The contract generalizes the teacher's
// internal/risk/agents.Agent interface (Name/Priority/Analyze) to a
// tag/dependency-driven scheduling model instead of a fixed priority
// order.
package inspector

import "github.com/sleroy/java-architecture-analyzer/internal/graphmodel"

// TargetKind restricts which node variant an Inspector accepts.
type TargetKind string

const (
	TargetFile  TargetKind = "FILE"
	TargetClass TargetKind = "CLASS"
	TargetAny   TargetKind = "ANY"
)

// Dependencies declares the static tag contract an inspector enters into
// with the rest of the registry: the tags it requires to run, and the
// tags it produces.
type Dependencies struct {
	Requires map[string]struct{}
	Produces map[string]struct{}
}

// NewDependencies builds a Dependencies value from plain string slices.
func NewDependencies(requires, produces []string) Dependencies {
	d := Dependencies{Requires: make(map[string]struct{}), Produces: make(map[string]struct{})}
	for _, r := range requires {
		d.Requires[r] = struct{}{}
	}
	for _, p := range produces {
		d.Produces[p] = struct{}{}
	}
	return d
}

// Inspector is a bounded analyzer over one node variant. Mutations an
// inspector makes to a node must go only through the NodeDecorator passed
// to Inspect — inspectors never mutate graphmodel.Node fields directly.
type Inspector interface {
	Name() string
	TargetKind() TargetKind

	// Supports is a cheap structural predicate: could this inspector ever
	// apply to node, ignoring tag state.
	Supports(node graphmodel.GraphNode) bool

	// CanProcess is the stricter gate the scheduler uses: Supports plus
	// whatever tag predicates this inspector requires to be eligible.
	CanProcess(node graphmodel.GraphNode) bool

	// Inspect performs the analysis. Any error it returns is caught by
	// the executor, recorded onto the node, and does not stop the pass
	// (§7 InspectorError).
	Inspect(node graphmodel.GraphNode, decorator NodeDecorator) error

	Dependencies() Dependencies
}

// FileDetector is a constrained Inspector specialized for phase 1: it may
// only tag files by extension, filename, or content-sniff, and must never
// set arbitrary properties. The interface is identical to Inspector; the
// constraint is a convention enforced by review/tests, not the type
// system, matching the spec's framing of FileDetector as "a constrained
// inspector".
type FileDetector interface {
	Inspector
}

// NodeDecorator is the capability given to inspectors during Inspect. It
// is the only sanctioned way to mutate a node: every method that changes
// node data advances the node's lastModified; execution-tracking (done by
// the executor, never by a decorator) deliberately does not.
type NodeDecorator interface {
	SetProperty(key string, value interface{})
	EnableTag(tag string)
	SetMetric(key string, value float64)
	Error(message string)
}

// nodeDecorator is the concrete NodeDecorator backed directly by a
// graphmodel.Node's own mutation methods.
type nodeDecorator struct {
	node *graphmodel.Node
}

// NewNodeDecorator wraps node's common Node state as a NodeDecorator.
func NewNodeDecorator(node *graphmodel.Node) NodeDecorator {
	return &nodeDecorator{node: node}
}

// DecoratorFor builds a NodeDecorator for any GraphNode variant via its
// embedded Base(), so the executor never needs a type switch to mutate a
// node through an inspector.
func DecoratorFor(node graphmodel.GraphNode) NodeDecorator {
	return NewNodeDecorator(node.Base())
}

func (d *nodeDecorator) SetProperty(key string, value interface{}) { d.node.SetProperty(key, value) }
func (d *nodeDecorator) EnableTag(tag string)                      { d.node.EnableTag(tag) }
func (d *nodeDecorator) SetMetric(key string, value float64)       { d.node.SetMetric(key, value) }
func (d *nodeDecorator) Error(message string)                      { d.node.SetError(message) }
