package cst

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsastro "github.com/virtual-signal/tree-sitter-astro/bindings/go"
	tssvelte "github.com/tree-sitter-grammars/tree-sitter-svelte/bindings/go"
)

// Lang identifies a supported template grammar.
type Lang int

const (
	LangAstro Lang = iota
	LangSvelte
)

func (l Lang) String() string {
	switch l {
	case LangAstro:
		return "astro"
	case LangSvelte:
		return "svelte"
	default:
		return "unknown"
	}
}

func grammarFor(l Lang) (*sitter.Language, error) {
	switch l {
	case LangAstro:
		return sitter.NewLanguage(tsastro.Language()), nil
	case LangSvelte:
		return sitter.NewLanguage(tssvelte.Language()), nil
	default:
		return nil, ErrUnsupportedLanguage
	}
}
