// Package inspectors holds the small set of inspector implementations
// shipped with the core itself rather than injected by a collaborator:
// the two file detectors collection depends on to even see a file
// (JavaSourceCollector/JavaBinaryCollector both gate on these tags, per
// internal/collector), plus one illustrative phase-4 inspector. Anything
// more elaborate (coupling metrics, cyclomatic complexity, architecture
// rules) is exactly the kind of inspector the registry's BeanFactory-style
// entry point exists for a collaborator to supply.
package inspectors

import (
	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/sleroy/java-architecture-analyzer/internal/inspector"
)

// JavaSourceDetector tags plain .java files so JavaSourceCollector will
// pick them up during phase 2.
type JavaSourceDetector struct {
	*inspector.Base
}

// NewJavaSourceDetector creates the detector.
func NewJavaSourceDetector() *JavaSourceDetector {
	return &JavaSourceDetector{Base: inspector.NewBase("JavaSourceDetector", inspector.TargetFile, inspector.NewDependencies(nil, []string{"java.is_source"}))}
}

func (d *JavaSourceDetector) Supports(node graphmodel.GraphNode) bool {
	file, ok := node.(*graphmodel.FileNode)
	return ok && file.IsJavaSource()
}

func (d *JavaSourceDetector) CanProcess(node graphmodel.GraphNode) bool {
	return d.Supports(node) && !node.HasTag("java.is_source")
}

func (d *JavaSourceDetector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	dec.EnableTag("java.is_source")
	dec.EnableTag("java.detected")
	return nil
}

// JavaBinaryDetector tags compiled .class files so JavaBinaryCollector
// will pick them up during phase 2.
type JavaBinaryDetector struct {
	*inspector.Base
}

// NewJavaBinaryDetector creates the detector.
func NewJavaBinaryDetector() *JavaBinaryDetector {
	return &JavaBinaryDetector{Base: inspector.NewBase("JavaBinaryDetector", inspector.TargetFile, inspector.NewDependencies(nil, []string{"java.is_binary"}))}
}

func (d *JavaBinaryDetector) Supports(node graphmodel.GraphNode) bool {
	file, ok := node.(*graphmodel.FileNode)
	return ok && file.IsJavaBinary()
}

func (d *JavaBinaryDetector) CanProcess(node graphmodel.GraphNode) bool {
	return d.Supports(node) && !node.HasTag("java.is_binary")
}

func (d *JavaBinaryDetector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	dec.EnableTag("java.is_binary")
	return nil
}

// FullyQualifiedNameInspector stamps a ClassNode with its own FQN as an
// explicit property, matching the spec's single-file-project testable
// scenario (java.fullyQualifiedName).
type FullyQualifiedNameInspector struct {
	*inspector.Base
}

// NewFullyQualifiedNameInspector creates the inspector.
func NewFullyQualifiedNameInspector() *FullyQualifiedNameInspector {
	return &FullyQualifiedNameInspector{Base: inspector.NewBase("FullyQualifiedNameInspector", inspector.TargetClass, inspector.Dependencies{})}
}

func (i *FullyQualifiedNameInspector) Supports(node graphmodel.GraphNode) bool {
	_, ok := node.(*graphmodel.ClassNode)
	return ok
}

func (i *FullyQualifiedNameInspector) CanProcess(node graphmodel.GraphNode) bool {
	return i.Supports(node) && !node.HasTag(i.Name() + ".done")
}

func (i *FullyQualifiedNameInspector) Inspect(node graphmodel.GraphNode, dec inspector.NodeDecorator) error {
	class := node.(*graphmodel.ClassNode)
	dec.SetProperty("java.fullyQualifiedName", class.ID())
	dec.EnableTag(i.Name() + ".done")
	return nil
}
