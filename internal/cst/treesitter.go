package cst

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsNode adapts *sitter.Node to Node, holding the pointer the binding
// returns.
type tsNode struct {
	n *sitter.Node
}

func (w tsNode) Kind() string      { return w.n.Kind() }
func (w tsNode) IsNamed() bool     { return w.n.IsNamed() }
func (w tsNode) StartByte() uint   { return w.n.StartByte() }
func (w tsNode) EndByte() uint     { return w.n.EndByte() }
func (w tsNode) Walk() Cursor      { return &tsCursor{c: w.n.Walk()} }

type tsCursor struct {
	c *sitter.TreeCursor
}

func (w *tsCursor) Node() Node {
	n := w.c.Node()
	return tsNode{n: n}
}

func (w *tsCursor) GotoFirstChild() bool  { return w.c.GotoFirstChild() }
func (w *tsCursor) GotoNextSibling() bool { return w.c.GotoNextSibling() }
func (w *tsCursor) GotoParent() bool      { return w.c.GotoParent() }
func (w *tsCursor) Close()                { w.c.Close() }

type tsTree struct {
	t *sitter.Tree
}

func (w *tsTree) RootNode() Node { return tsNode{n: w.t.RootNode()} }
func (w *tsTree) Walk() Cursor   { return &tsCursor{c: w.t.RootNode().Walk()} }
func (w *tsTree) Close()         { w.t.Close() }

// TreeSitterParser parses source bytes with a single tree-sitter grammar.
// It is not safe for concurrent use by multiple goroutines; callers obtain
// one per-goroutine-in-flight instance from Acquire.
type TreeSitterParser struct {
	parser *sitter.Parser
}

// NewTreeSitterParser constructs a parser bound to lang. lang is one of the
// grammar bindings loaded by grammarFor.
func NewTreeSitterParser(lang *sitter.Language) (*TreeSitterParser, error) {
	ensureAllocator()

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, err
	}
	return &TreeSitterParser{parser: p}, nil
}

// Parse implements Parser.
func (p *TreeSitterParser) Parse(src []byte) (Tree, error) {
	tree := p.parser.Parse(src, nil)
	if tree == nil || tree.RootNode() == nil {
		return nil, ErrParseFailed
	}
	return &tsTree{t: tree}, nil
}

// Close releases the underlying native parser. Parsers obtained from
// Acquire must not be closed by the caller; the pool owns their lifetime.
func (p *TreeSitterParser) Close() {
	p.parser.Close()
}
