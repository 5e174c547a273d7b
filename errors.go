package tmplstrip

import (
	"fmt"

	"github.com/tmplstrip/tmplstrip/internal/cst"
	"github.com/tmplstrip/tmplstrip/internal/diag"
	"github.com/tmplstrip/tmplstrip/internal/edit"
)

// ErrParseFailed is returned when the parser produces no usable tree.
var ErrParseFailed = cst.ErrParseFailed

// ErrUnsupportedLanguage is returned for a Language with no bound grammar.
var ErrUnsupportedLanguage = cst.ErrUnsupportedLanguage

// InvalidEditError reports a rewriter invariant violated before an edit list
// was applied: start>end, an out-of-bounds end, a replacement/origin length
// mismatch, a too-large MovedDelimLen, or an out-of-bounds origin. It should
// never occur with the shipped rewriter, so seeing one means a bug rather
// than a malformed input.
type InvalidEditError struct {
	Msg string
	Loc *diag.Loc

	// source is the text Loc points into, carried unexported so Error() can
	// render a caret-pointer snippet without widening the public fields.
	source diag.Source
}

func (e *InvalidEditError) Error() string {
	if e.Loc == nil {
		return "invalid edit: " + e.Msg
	}
	loc := diag.LocateRange(e.source, diag.Range{Loc: *e.Loc, Len: 1})
	return fmt.Sprintf("invalid edit: %s at %s\n%s", e.Msg, loc.String(), loc.Snippet())
}

// OverlappingEditsError reports two edits whose byte ranges overlap after
// sorting, found by the validator.
type OverlappingEditsError struct {
	AStart, AEnd, BStart, BEnd int
}

func (e *OverlappingEditsError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d,%d) overlaps [%d,%d)", e.AStart, e.AEnd, e.BStart, e.BEnd)
}

// SourceMapError wraps a failure to parse an upstream source map or
// serialize the output one.
type SourceMapError struct {
	Err error
}

func (e *SourceMapError) Error() string { return "source map: " + e.Err.Error() }
func (e *SourceMapError) Unwrap() error { return e.Err }

// translateEditErr converts a validation failure from internal/edit into
// the public error type that names it, preserving the underlying detail.
// source is the text the failing edit was validated against, so
// InvalidEditError can render a snippet pointing at the offending byte.
func translateEditErr(err error, source diag.Source) error {
	switch e := err.(type) {
	case *edit.ValidationError:
		return &InvalidEditError{Msg: e.Msg, Loc: &diag.Loc{Start: e.Offset}, source: source}
	case *edit.OverlapError:
		return &OverlappingEditsError{AStart: e.AStart, AEnd: e.AEnd, BStart: e.BStart, BEnd: e.BEnd}
	default:
		return err
	}
}
