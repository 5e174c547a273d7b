package edit

import "testing"

func TestValidateRejectsOverlap(t *testing.T) {
	edits := []Edit{
		{Start: 1, End: 3, Replacement: nil, Origin: nil},
		{Start: 2, End: 4, Replacement: nil, Origin: nil},
	}

	err := Validate(10, edits)
	if _, ok := err.(*OverlapError); !ok {
		t.Fatalf("got %T (%v), want *OverlapError", err, err)
	}
}

func TestValidateRejectsStartAfterEnd(t *testing.T) {
	edits := []Edit{{Start: 5, End: 3, Replacement: nil, Origin: nil}}
	err := Validate(10, edits)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T (%v), want *ValidationError", err, err)
	}
}

func TestValidateRejectsOutOfBoundsEnd(t *testing.T) {
	edits := []Edit{{Start: 0, End: 20, Replacement: make([]byte, 20), Origin: make([]Origin, 20)}}
	err := Validate(10, edits)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T (%v), want *ValidationError", err, err)
	}
}

func TestValidateRejectsOriginLengthMismatch(t *testing.T) {
	edits := []Edit{{Start: 0, End: 1, Replacement: []byte("ab"), Origin: []Origin{FromInputByte(0)}}}
	err := Validate(10, edits)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T (%v), want *ValidationError", err, err)
	}
}

func TestValidateRejectsMovedDelimLenTooLarge(t *testing.T) {
	edits := []Edit{{
		Start: 0, End: 1,
		Replacement:   []byte(">"),
		Origin:        []Origin{FromInputByte(0)},
		MovedDelimLen: 5,
	}}
	err := Validate(10, edits)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T (%v), want *ValidationError", err, err)
	}
}

func TestValidateRejectsOutOfBoundsOrigin(t *testing.T) {
	edits := []Edit{{Start: 0, End: 1, Replacement: []byte("x"), Origin: []Origin{FromInputByte(100)}}}
	err := Validate(10, edits)
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("got %T (%v), want *ValidationError", err, err)
	}
}

func TestValidateAcceptsWellFormedEdits(t *testing.T) {
	edits := []Edit{
		{Start: 2, End: 4, Replacement: []byte("\n>"), Origin: []Origin{FromInputByte(3), FromInputByte(2)}, MovedDelimLen: 1},
		{Start: 6, End: 6, Replacement: []byte("X"), Origin: []Origin{NoOrigin}},
	}
	if err := Validate(10, edits); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOriginInsertedRoundTrip(t *testing.T) {
	if !NoOrigin.IsInserted() {
		t.Fatalf("NoOrigin.IsInserted() = false, want true")
	}
	o := FromInputByte(42)
	if o.IsInserted() {
		t.Fatalf("FromInputByte(42).IsInserted() = true, want false")
	}
	if o.InputByte() != 42 {
		t.Fatalf("got %d, want 42", o.InputByte())
	}
}

func TestApplySingleEdit(t *testing.T) {
	input := "<a>\n<b>"
	edits := []Edit{{Start: 2, End: 4, Replacement: []byte("\n>"), Origin: []Origin{FromInputByte(3), FromInputByte(2)}, MovedDelimLen: 1}}

	out := Apply([]byte(input), edits)
	if string(out) != "<a\n><b>" {
		t.Fatalf("got %q", out)
	}
}

func TestApplyMultipleNonOverlappingEdits(t *testing.T) {
	input := "<a>\n<b>\n<c>"
	edits := []Edit{
		{Start: 2, End: 4, Replacement: []byte("\n>"), Origin: []Origin{FromInputByte(3), FromInputByte(2)}, MovedDelimLen: 1},
		{Start: 6, End: 8, Replacement: []byte("\n>"), Origin: []Origin{FromInputByte(7), FromInputByte(6)}, MovedDelimLen: 1},
	}
	out := Apply([]byte(input), edits)
	if string(out) != "<a\n><b\n><c>" {
		t.Fatalf("got %q", out)
	}
}

// A same-length rotation leaves the output length unchanged and keeps the
// edit's output span at its input offsets.
func TestOutputSpansTracksLengthDelta(t *testing.T) {
	input := "<a>\n<b>"
	edits := []Edit{{Start: 2, End: 4, Replacement: []byte("\n>"), Origin: []Origin{FromInputByte(3), FromInputByte(2)}, MovedDelimLen: 1}}

	spans, outLen := OutputSpans(len(input), edits)
	if outLen != len(input) {
		t.Fatalf("got outLen=%d, want %d (same-length rotation)", outLen, len(input))
	}
	if len(spans) != 1 || spans[0].OutStart != 2 || spans[0].OutEnd != 4 {
		t.Fatalf("got %+v", spans)
	}
}

func TestOutputSpansWithDeletion(t *testing.T) {
	input := "a   b"
	edits := []Edit{{Start: 1, End: 4, Replacement: []byte(" "), Origin: []Origin{FromInputByte(1)}}}

	spans, outLen := OutputSpans(len(input), edits)
	if outLen != 3 {
		t.Fatalf("got outLen=%d, want 3", outLen)
	}
	if len(spans) != 1 || spans[0].OutStart != 1 || spans[0].OutEnd != 2 {
		t.Fatalf("got %+v", spans)
	}
}
