package inspector

// Base generalizes the teacher's BaseAgent: an embeddable helper carrying
// an inspector's name, target kind, and dependency metadata, so concrete
// inspectors need not re-implement every contract method — only
// Supports, CanProcess, and Inspect vary per inspector.
type Base struct {
	name   string
	target TargetKind
	deps   Dependencies
}

// NewBase creates a Base with the given name, target kind, and
// dependencies.
func NewBase(name string, target TargetKind, deps Dependencies) *Base {
	return &Base{name: name, target: target, deps: deps}
}

func (b *Base) Name() string             { return b.name }
func (b *Base) TargetKind() TargetKind   { return b.target }
func (b *Base) Dependencies() Dependencies { return b.deps }
