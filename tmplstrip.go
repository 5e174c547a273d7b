// Package tmplstrip strips whitespace-only gaps from Astro and Svelte
// templates by rotating a small delimiter or opener token across each gap
// instead of deleting bytes outright, keeping source maps accurate and
// column drift small.
package tmplstrip

import (
	"github.com/tmplstrip/tmplstrip/internal/cst"
	"github.com/tmplstrip/tmplstrip/internal/diag"
	"github.com/tmplstrip/tmplstrip/internal/edit"
	"github.com/tmplstrip/tmplstrip/internal/rewrite"
	"github.com/tmplstrip/tmplstrip/internal/srcmap"
)

// Language selects the template grammar a call is parsed with.
type Language = cst.Lang

const (
	LangAstro  = cst.LangAstro
	LangSvelte = cst.LangSvelte
)

// StripConfig controls gap-rewriting behavior. It gains no knobs beyond
// PreserveBlankLines: reformatting and non-gap whitespace edits are out of
// scope for this transform, not just unconfigured.
type StripConfig struct {
	// PreserveBlankLines, when true, leaves untouched any gap containing an
	// empty line ("\n\n" or "\r\n\r\n").
	PreserveBlankLines bool
}

// Diagnostic reports a syntax error found while parsing, as a byte range
// into the source that produced it.
type Diagnostic struct {
	Message string
	Range   diag.Range
}

// StripWithMap strips source and returns the rewritten code together with a
// Source Map v3 document (JSON) mapping it back to source.
func StripWithMap(source, filename string, lang Language, cfg StripConfig) ([]byte, []byte, error) {
	outCode, edits, err := strip(source, filename, lang, cfg)
	if err != nil {
		return nil, nil, err
	}

	mapJSON, err := srcmap.CreateSourceMap(source, outCode, filename, edits)
	if err != nil {
		return nil, nil, &SourceMapError{Err: err}
	}
	return []byte(outCode), []byte(mapJSON), nil
}

// StripNoMap strips source and returns only the rewritten code. It never
// fails on a source-map issue, since it never builds one.
func StripNoMap(source, filename string, lang Language, cfg StripConfig) ([]byte, error) {
	outCode, _, err := strip(source, filename, lang, cfg)
	if err != nil {
		return nil, err
	}
	return []byte(outCode), nil
}

// RewriteMap strips source and rewrites an existing upstream source map (one
// describing how source was itself generated from some original file) so it
// applies to the stripped output instead.
func RewriteMap(source, filename string, lang Language, cfg StripConfig, upstreamMapJSON []byte) ([]byte, []byte, error) {
	outCode, edits, err := strip(source, filename, lang, cfg)
	if err != nil {
		return nil, nil, err
	}

	mapJSON, err := srcmap.RewriteSourceMap(source, outCode, string(upstreamMapJSON), edits)
	if err != nil {
		return nil, nil, &SourceMapError{Err: err}
	}
	return []byte(outCode), []byte(mapJSON), nil
}

// ParseOnly parses source and reports any syntax errors found, without
// computing any edits. It is a cheap way to check "is this parseable" when
// a caller doesn't need the rewrite itself.
func ParseOnly(source string, lang Language) ([]Diagnostic, error) {
	tree, err := cst.Parse(lang, []byte(source))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var diags []Diagnostic
	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	for {
		n := cursor.Node()
		if n.Kind() == "ERROR" {
			start, end := int(n.StartByte()), int(n.EndByte())
			diags = append(diags, Diagnostic{
				Message: "syntax error",
				Range:   diag.Range{Loc: diag.Loc{Start: start}, Len: end - start},
			})
		}

		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return diags, nil
			}
		}
	}
}

// strip parses source, collects gap-rewrite edits, validates them, and
// applies them. It is the one place the other entry points share, so the
// parse-walk-validate-apply sequence never drifts between them.
func strip(source, filename string, lang Language, cfg StripConfig) (outCode string, edits []edit.Edit, err error) {
	tree, err := cst.Parse(lang, []byte(source))
	if err != nil {
		return "", nil, err
	}
	defer tree.Close()

	edits = rewrite.Collect(source, tree.RootNode(), rewrite.Config{PreserveBlankLines: cfg.PreserveBlankLines})

	if verr := edit.Validate(len(source), edits); verr != nil {
		return "", nil, translateEditErr(verr, diag.Source{Filename: filename, Contents: source})
	}

	out := edit.Apply([]byte(source), edits)
	return string(out), edits, nil
}
