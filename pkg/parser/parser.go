// Package parser wraps tree-sitter to turn raw Python source into a
// structural tree that the analyzers walk.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError describes a syntax failure in a source unit. It is a value, not
// a control-flow error: a unit that fails to parse still flows through the
// raw-text analyzers.
type ParseError struct {
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
	Message string `json:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ParseResult contains the parsed tree and metadata for one source unit.
// When Err is non-nil the tree is unusable and tree-based analyzers must
// skip the unit.
type ParseResult struct {
	Name   string
	Source []byte
	Tree   *sitter.Tree
	Err    *ParseError
}

// OK reports whether the unit parsed cleanly.
func (r *ParseResult) OK() bool {
	return r.Err == nil
}

// Close releases the underlying tree. Safe to call on failed results.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
	}
}

// Parser wraps a tree-sitter parser configured for Python.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses a source unit. It never returns a Go error for invalid
// syntax; failures are carried on the result as a ParseError so the caller
// can still run the analyzers that work on raw text.
func (p *Parser) Parse(source []byte, name string) *ParseResult {
	result := &ParseResult{
		Name:   name,
		Source: source,
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		result.Err = &ParseError{Line: 1, Column: 1, Message: "unable to build syntax tree"}
		return result
	}

	root := tree.RootNode()
	if root.HasError() {
		result.Err = locateSyntaxError(root)
		tree.Close()
		return result
	}

	result.Tree = tree
	return result
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// locateSyntaxError finds the first ERROR or missing node and reports its
// position (1-based).
func locateSyntaxError(root *sitter.Node) *ParseError {
	var found *sitter.Node

	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return true
		}
		for i := range int(n.ChildCount()) {
			if walk(n.Child(i)) {
				return true
			}
		}
		return false
	}
	walk(root)

	if found == nil {
		found = root
	}
	msg := "invalid syntax"
	if found.IsMissing() {
		msg = fmt.Sprintf("missing %s", found.Type())
	}
	return &ParseError{
		Line:    found.StartPoint().Row + 1,
		Column:  found.StartPoint().Column + 1,
		Message: msg,
	}
}

// NodeVisitor is a function that visits tree nodes. Returning false stops
// descent into the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// TypedNodeVisitor visits tree nodes with pre-cached node type to avoid CGO overhead.
type TypedNodeVisitor func(node *sitter.Node, nodeType string, source []byte) bool

// Walk traverses the tree calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// WalkTyped traverses the tree with cached node types to reduce CGO overhead.
// Use this when you need to check node types frequently.
func WalkTyped(node *sitter.Node, source []byte, visitor TypedNodeVisitor) {
	if node == nil {
		return
	}

	nodeType := node.Type() // Cache the type once per node
	if !visitor(node, nodeType, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		WalkTyped(node.Child(i), source, visitor)
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// FunctionNode represents a parsed function or method definition.
type FunctionNode struct {
	Name      string
	StartLine uint32
	EndLine   uint32
	Body      *sitter.Node
	Node      *sitter.Node
}

// GetFunctions extracts all function definitions, including methods and
// nested functions. Order follows source position.
func GetFunctions(result *ParseResult) []FunctionNode {
	if result.Tree == nil {
		return nil
	}

	var functions []FunctionNode
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if node.Type() == "function_definition" {
			fn := FunctionNode{
				StartLine: node.StartPoint().Row + 1,
				EndLine:   node.EndPoint().Row + 1,
				Body:      node.ChildByFieldName("body"),
				Node:      node,
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				fn.Name = GetNodeText(nameNode, source)
			}
			functions = append(functions, fn)
		}
		return true
	})

	return functions
}

// ClassNode represents a parsed class definition.
type ClassNode struct {
	Name      string
	StartLine uint32
	EndLine   uint32
	Body      *sitter.Node
	Node      *sitter.Node
}

// GetClasses extracts all class definitions from parsed code.
func GetClasses(result *ParseResult) []ClassNode {
	if result.Tree == nil {
		return nil
	}

	var classes []ClassNode
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		if node.Type() == "class_definition" {
			cls := ClassNode{
				StartLine: node.StartPoint().Row + 1,
				EndLine:   node.EndPoint().Row + 1,
				Body:      node.ChildByFieldName("body"),
				Node:      node,
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				cls.Name = GetNodeText(nameNode, source)
			}
			classes = append(classes, cls)
		}
		return true
	})

	return classes
}
