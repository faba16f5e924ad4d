// Package collector implements class-node collection (C8): running every
// registered ClassNodeCollector over Java source/binary FileNodes during
// phase 2.
package collector

// ParsedType is one type declaration (class, interface, enum, annotation,
// record) found in a parsed source file.
type ParsedType struct {
	SimpleName string
	Kind       string // "class", "interface", "enum", "annotation", "record"
	// Nested/inner types are reported with SimpleName containing a "."
	// separator (OuterName.InnerName), matching FQN construction in the
	// collector.
}

// ParsedSource is the structural summary a Parser produces for one
// source file.
type ParsedSource struct {
	PackageName string
	Types       []ParsedType
}

// Parser is the narrow interface the core depends on for class
// discovery. The core never imports a concrete parsing library directly
// ("parsing libraries are injected by inspectors" — the collector's
// injected dependency is one instance of that same rule); the concrete
// tree-sitter-backed implementation lives in internal/javaparse.
type Parser interface {
	ParseSource(src []byte) (ParsedSource, error)
}
