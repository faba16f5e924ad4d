package inspector

import (
	"testing"

	"github.com/sleroy/java-architecture-analyzer/internal/graphmodel"
	"github.com/stretchr/testify/assert"
)

// tagSetterInspector is a minimal test double in the spirit of a
// JavaSourceDetector: it tags any file whose extension is .java.
type tagSetterInspector struct {
	*Base
}

func newTagSetterInspector() *tagSetterInspector {
	return &tagSetterInspector{Base: NewBase("test.tagSetter", TargetFile, NewDependencies(nil, []string{"java.is_source"}))}
}

func (i *tagSetterInspector) Supports(node graphmodel.GraphNode) bool {
	f, ok := node.(*graphmodel.FileNode)
	return ok && f.IsJavaSource()
}

func (i *tagSetterInspector) CanProcess(node graphmodel.GraphNode) bool {
	return i.Supports(node)
}

func (i *tagSetterInspector) Inspect(node graphmodel.GraphNode, decorator NodeDecorator) error {
	decorator.EnableTag("java.is_source")
	return nil
}

func TestInspector_DecoratorMutatesUnderlyingNode(t *testing.T) {
	f := graphmodel.NewFileNode("Main.java", "Main.java", "Main.java", ".java")
	insp := newTagSetterInspector()

	assert.True(t, insp.CanProcess(f))

	decorator := DecoratorFor(f)
	err := insp.Inspect(f, decorator)

	assert.NoError(t, err)
	assert.True(t, f.HasTag("java.is_source"))
}

func TestDecorator_ErrorSetsProcessingErrorProperty(t *testing.T) {
	f := graphmodel.NewFileNode("Main.java", "Main.java", "Main.java", ".java")
	decorator := DecoratorFor(f)

	decorator.Error("boom")

	v, ok := f.Property("processing.error")
	assert.True(t, ok)
	assert.Equal(t, "ERROR: boom", v)
}
