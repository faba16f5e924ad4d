// Package javaparse implements the collector.Parser interface (C8's
// injected parser) on top of smacker/go-tree-sitter's Java grammar
// binding, the same ecosystem family the retrieved example pack's
// source-analysis tooling depends on for tree-sitter-based parsing.
package javaparse

import (
	"fmt"

	"github.com/sleroy/java-architecture-analyzer/internal/collector"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// declarationKinds maps tree-sitter-java node types to the kind string
// the core's ClassKind enumeration uses.
var declarationKinds = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"annotation_type_declaration": "annotation",
	"record_declaration":          "record",
}

// TreeSitterParser parses Java source files into collector.ParsedSource
// values. Parsers are not safe for concurrent use, matching
// smacker/go-tree-sitter's own Parser; the class collector invokes one
// instance sequentially per phase 2, consistent with the single-threaded
// executor model (§5).
type TreeSitterParser struct {
	parser *sitter.Parser
}

// NewTreeSitterParser creates a parser configured with the Java grammar.
func NewTreeSitterParser() *TreeSitterParser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &TreeSitterParser{parser: p}
}

var _ collector.Parser = (*TreeSitterParser)(nil)

// ParseSource parses src and extracts the package declaration plus every
// top-level and nested type declaration.
func (p *TreeSitterParser) ParseSource(src []byte) (collector.ParsedSource, error) {
	tree := p.parser.Parse(nil, src)
	if tree == nil {
		return collector.ParsedSource{}, fmt.Errorf("javaparse: failed to parse source")
	}
	defer tree.Close()

	root := tree.RootNode()
	result := collector.ParsedSource{}

	walkNode(root, src, "", &result)
	return result, nil
}

// walkNode recursively walks the parse tree, recording the package
// declaration and every type declaration. Nested types are reported with
// a dotted SimpleName (Outer.Inner) by threading enclosingName through
// recursive calls.
func walkNode(node *sitter.Node, src []byte, enclosingName string, result *collector.ParsedSource) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "package_declaration":
		if nameNode := findChildByField(node, "name"); nameNode != nil {
			result.PackageName = nameNode.Content(src)
		} else {
			result.PackageName = extractPackageNameFallback(node, src)
		}
		return

	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		simpleName := ""
		if nameNode := findChildByField(node, "name"); nameNode != nil {
			simpleName = nameNode.Content(src)
		}
		if simpleName == "" {
			return
		}
		fullSimpleName := simpleName
		if enclosingName != "" {
			fullSimpleName = enclosingName + "." + simpleName
		}
		result.Types = append(result.Types, collector.ParsedType{
			SimpleName: fullSimpleName,
			Kind:       declarationKinds[node.Type()],
		})

		// Descend into the body to find nested type declarations.
		if body := findChildByField(node, "body"); body != nil {
			walkChildren(body, src, fullSimpleName, result)
		}
		return
	}

	walkChildren(node, src, enclosingName, result)
}

func walkChildren(node *sitter.Node, src []byte, enclosingName string, result *collector.ParsedSource) {
	for i := 0; i < int(node.ChildCount()); i++ {
		walkNode(node.Child(i), src, enclosingName, result)
	}
}

func findChildByField(node *sitter.Node, field string) *sitter.Node {
	return node.ChildByFieldName(field)
}

// extractPackageNameFallback handles grammar versions where the scoped
// identifier is not exposed under a "name" field: it returns the text of
// the first identifier/scoped_identifier child (a scoped_identifier
// already spans the whole dotted name).
func extractPackageNameFallback(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return child.Content(src)
		}
	}
	return ""
}
