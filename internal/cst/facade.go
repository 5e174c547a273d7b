// Package cst defines the narrow concrete-syntax-tree interface the
// rewriter depends on, plus a tree-sitter-backed implementation. Keeping
// the interface here (instead of importing tree-sitter directly from
// internal/rewrite) lets the gap rotator be tested against a fake tree
// with no cgo involved.
package cst

import "errors"

// ErrParseFailed is returned when a parser produces no usable tree.
var ErrParseFailed = errors.New("cst: parse failed")

// ErrUnsupportedLanguage is returned for a Language with no bound grammar.
var ErrUnsupportedLanguage = errors.New("cst: unsupported language")

// Node is a single CST node: a kind tag plus a byte span.
type Node interface {
	Kind() string
	IsNamed() bool
	StartByte() uint
	EndByte() uint
	// Walk returns a cursor positioned at this node, for walking its
	// children without recursing through the enclosing tree.
	Walk() Cursor
}

// Cursor walks a tree iteratively. Implementations must support repeated
// sibling/child/parent navigation from any position; Close releases any
// underlying native resources and must be called exactly once.
type Cursor interface {
	Node() Node
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
	Close()
}

// Tree is a parsed document. Close releases any underlying native
// resources and must be called exactly once.
type Tree interface {
	RootNode() Node
	Walk() Cursor
	Close()
}

// Parser parses source bytes for one language.
type Parser interface {
	Parse(src []byte) (Tree, error)
}

// NamedChildren returns node's named children in document order, using only
// cursor navigation — never integer-indexed child access, since some
// bindings have been observed to disagree between ChildCount and Child(i)
// under WASM.
func NamedChildren(node Node) []Node {
	cursor := node.Walk()
	defer cursor.Close()

	var children []Node
	if !cursor.GotoFirstChild() {
		return nil
	}
	for {
		n := cursor.Node()
		if n.IsNamed() {
			children = append(children, n)
		}
		if !cursor.GotoNextSibling() {
			break
		}
	}
	return children
}
