package utf16idx

import (
	"testing"
	"unicode/utf8"
)

func mustByte(t *testing.T, idx *Index, line, col int) int {
	t.Helper()
	b, ok := idx.LineColToByte(line, col)
	if !ok {
		t.Fatalf("LineColToByte(%d, %d): out of range", line, col)
	}
	return b
}

func TestASCIIRoundtrips(t *testing.T) {
	s := "abc"
	idx := New(s, ComputeLineStarts(s))

	if l, c := idx.ByteToLineCol(0); l != 0 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(3); l != 0 || c != 3 {
		t.Fatalf("got (%d,%d)", l, c)
	}

	if got := mustByte(t, idx, 0, 0); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 0, 99); got != 3 {
		t.Fatalf("got %d", got)
	}
	if _, ok := idx.LineColToByte(1, 0); ok {
		t.Fatalf("expected out of range")
	}
}

func TestJapaneseMultiByteSingleUTF16Unit(t *testing.T) {
	s := "あい"
	idx := New(s, ComputeLineStarts(s))

	if l, c := idx.ByteToLineCol(0); l != 0 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(3); l != 0 || c != 1 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(6); l != 0 || c != 2 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	// Mid-byte offsets clamp to the character start.
	if l, c := idx.ByteToLineCol(1); l != 0 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(4); l != 0 || c != 1 {
		t.Fatalf("got (%d,%d)", l, c)
	}

	if got := mustByte(t, idx, 0, 1); got != 3 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 0, 2); got != 6 {
		t.Fatalf("got %d", got)
	}
}

func TestEmojiSurrogatePairClamps(t *testing.T) {
	s := "🙂" // 4 bytes, 2 UTF-16 units
	idx := New(s, ComputeLineStarts(s))

	if l, c := idx.ByteToLineCol(0); l != 0 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(4); l != 0 || c != 2 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(2); l != 0 || c != 0 {
		t.Fatalf("mid-scalar clamp: got (%d,%d)", l, c)
	}

	if got := mustByte(t, idx, 0, 0); got != 0 {
		t.Fatalf("got %d", got)
	}
	// Inside the surrogate pair clamps to the start of the code point.
	if got := mustByte(t, idx, 0, 1); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 0, 2); got != 4 {
		t.Fatalf("got %d", got)
	}
}

func TestMixedASCIIEmoji(t *testing.T) {
	s := "a🙂b"
	idx := New(s, ComputeLineStarts(s))

	cases := []struct {
		b, wantCol int
	}{{0, 0}, {1, 1}, {5, 3}, {6, 4}}
	for _, c := range cases {
		if _, got := idx.ByteToLineCol(c.b); got != c.wantCol {
			t.Fatalf("byte %d: got col %d, want %d", c.b, got, c.wantCol)
		}
	}

	if got := mustByte(t, idx, 0, 1); got != 1 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 0, 3); got != 5 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 0, 4); got != 6 {
		t.Fatalf("got %d", got)
	}
}

func TestMultiLinePositions(t *testing.T) {
	s := "a🙂\nあb"
	starts := ComputeLineStarts(s)
	if len(starts) != 2 || starts[0] != 0 || starts[1] != 6 {
		t.Fatalf("unexpected line starts: %v", starts)
	}
	idx := New(s, starts)

	if l, c := idx.ByteToLineCol(5); l != 0 || c != 3 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(6); l != 1 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}

	if got := mustByte(t, idx, 1, 1); got != 9 {
		t.Fatalf("got %d", got)
	}
	if got := mustByte(t, idx, 1, 2); got != 10 {
		t.Fatalf("got %d", got)
	}
}

func TestCRLFExcludesCarriageReturnFromColumns(t *testing.T) {
	s := "a🙂\r\nあb"
	idx := New(s, ComputeLineStarts(s))

	if l, c := idx.ByteToLineCol(5); l != 0 || c != 3 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(6); l != 0 || c != 3 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if l, c := idx.ByteToLineCol(7); l != 1 || c != 0 {
		t.Fatalf("got (%d,%d)", l, c)
	}
	if got := mustByte(t, idx, 0, 99); got != 5 {
		t.Fatalf("got %d", got)
	}
}

// naiveByteToUTF16Col scans a line from its start on every call; used as a
// reference implementation to validate the checkpointed version.
func naiveByteToUTF16Col(line string, relByte int) int {
	if relByte > len(line) {
		relByte = len(line)
	}
	col, cur := 0, 0
	for cur < relByte {
		r, size := utf8.DecodeRuneInString(line[cur:])
		next := cur + size
		if next > relByte {
			break
		}
		col += utf16Len(r)
		cur = next
	}
	return col
}

func TestCheckpointedMatchesNaiveOnLongMixedLine(t *testing.T) {
	var b []byte
	for i := 0; i < 200; i++ {
		b = append(b, []byte("a🙂あ")...)
	}
	line := string(b)
	s := line + "\nnext"
	idx := New(s, ComputeLineStarts(s))

	for _, rel := range []int{0, 1, 2, 3, 4, 5, 10, 63, 64, 65, 256, 999, len(line)} {
		abs := rel
		if abs > len(line) {
			abs = len(line)
		}
		_, got := idx.ByteToLineCol(abs)
		want := naiveByteToUTF16Col(line, abs)
		if got != want {
			t.Fatalf("byte->utf16 mismatch at rel byte %d: got %d want %d", abs, got, want)
		}
	}
}
