// Package edit defines the non-overlapping byte-range rewrite model shared
// by the gap rotator and the source map builder/rewriter.
package edit

import "fmt"

// Origin identifies where a single output byte came from: either an input
// byte offset, or "inserted" (no origin). This mirrors esbuild's
// ast.Index32 — a flipped-bits 32-bit index where the zero value is the
// invalid/absent case — rather than a pointer or a (bool, int) pair, so a
// slice of origins costs one word per entry with no extra allocation.
type Origin struct {
	flippedBits uint32
}

// NoOrigin is the zero value: an inserted byte with no input origin.
var NoOrigin Origin

// FromInputByte returns an Origin referencing input byte offset b.
func FromInputByte(b int) Origin {
	return Origin{flippedBits: ^uint32(b)}
}

// IsInserted reports whether this origin has no input byte (it was newly
// inserted by a rewrite).
func (o Origin) IsInserted() bool {
	return o.flippedBits == 0
}

// InputByte returns the origin's input byte offset. Only valid when
// !IsInserted().
func (o Origin) InputByte() int {
	return int(^o.flippedBits)
}

// Edit replaces input[Start:End] with Replacement. Origin[i] records where
// Replacement[i] came from in the input. MovedDelimLen, when nonzero, says
// the last MovedDelimLen bytes of Replacement are a delimiter token moved
// from elsewhere within [Start, End) and need extra source map anchors.
type Edit struct {
	Start, End    int
	Replacement   []byte
	Origin        []Origin
	MovedDelimLen int
}

// ValidationError reports a violated Edit invariant. It is always a sign of
// a rewriter bug — the gap rotator is expected to only ever produce valid
// edits. Offset is the input byte offset of the edit that failed (its
// Start), for callers that want to point at the offending location.
type ValidationError struct {
	Msg    string
	Offset int
}

func (e *ValidationError) Error() string { return "invalid edit: " + e.Msg }

// OverlapError reports two edits whose byte ranges overlap after sorting.
type OverlapError struct {
	AStart, AEnd, BStart, BEnd int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d,%d) overlaps [%d,%d)", e.AStart, e.AEnd, e.BStart, e.BEnd)
}

// Validate checks the structural invariants required of edits before they
// are applied: start <= end <= inputLen, ascending non-overlapping ranges,
// matching Origin/Replacement lengths, a sane MovedDelimLen, and in-bounds
// origins. It does not check that Replacement's bytes actually match the
// referenced input bytes — constructing that correctly is the rewriter's
// responsibility.
func Validate(inputLen int, edits []Edit) error {
	prevEnd := 0
	for i, e := range edits {
		if e.Start > e.End {
			return &ValidationError{Offset: e.Start, Msg: fmt.Sprintf("start > end at index %d: start=%d, end=%d", i, e.Start, e.End)}
		}
		if e.End > inputLen {
			return &ValidationError{Offset: e.Start, Msg: fmt.Sprintf("edit out of bounds at index %d: end=%d > input_len=%d", i, e.End, inputLen)}
		}
		if i > 0 && e.Start < prevEnd {
			p := edits[i-1]
			return &OverlapError{AStart: p.Start, AEnd: p.End, BStart: e.Start, BEnd: e.End}
		}
		if len(e.Origin) != len(e.Replacement) {
			return &ValidationError{Offset: e.Start, Msg: fmt.Sprintf(
				"origin length mismatch at index %d: origin_len=%d, replacement_len=%d", i, len(e.Origin), len(e.Replacement))}
		}
		if e.MovedDelimLen > len(e.Replacement) {
			return &ValidationError{Offset: e.Start, Msg: fmt.Sprintf(
				"moved_delim_len too large at index %d: moved_delim_len=%d > replacement_len=%d", i, e.MovedDelimLen, len(e.Replacement))}
		}
		for outOff, o := range e.Origin {
			if !o.IsInserted() && o.InputByte() >= inputLen {
				return &ValidationError{Offset: e.Start, Msg: fmt.Sprintf(
					"mapped input byte out of bounds at index %d: out_off=%d, in_byte=%d >= input_len=%d", i, outOff, o.InputByte(), inputLen)}
			}
		}
		prevEnd = e.End
	}
	return nil
}

// Apply streams input plus a sorted, non-overlapping edit list into the
// rewritten output. Edits must already be validated.
func Apply(input []byte, edits []Edit) []byte {
	out := make([]byte, 0, len(input))
	cursor := 0
	for _, e := range edits {
		if cursor < e.Start {
			out = append(out, input[cursor:e.Start]...)
		}
		out = append(out, e.Replacement...)
		cursor = e.End
	}
	if cursor < len(input) {
		out = append(out, input[cursor:]...)
	}
	return out
}

// Span is an edit plus its computed position in the output byte stream.
type Span struct {
	Edit           *Edit
	OutStart, OutEnd int
}

// OutputSpans computes each edit's [OutStart, OutEnd) span in the output
// byte stream by tracking the cumulative length delta the edits introduce,
// plus the total expected output length.
func OutputSpans(inputLen int, edits []Edit) (spans []Span, expectedOutLen int) {
	spans = make([]Span, 0, len(edits))
	delta := 0
	for i := range edits {
		e := &edits[i]
		outStart := e.Start + delta
		outEnd := outStart + len(e.Replacement)
		spans = append(spans, Span{Edit: e, OutStart: outStart, OutEnd: outEnd})
		delta += len(e.Replacement) - (e.End - e.Start)
	}
	expectedOutLen = inputLen + delta
	if expectedOutLen < 0 {
		expectedOutLen = 0
	}
	return spans, expectedOutLen
}
