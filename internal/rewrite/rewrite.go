// Package rewrite walks a parsed template's concrete syntax tree and
// collects whitespace-gap rewrite edits.
//
// Rather than deleting inter-node whitespace outright, it rotates a small
// delimiter or opener-prefix token across the gap, trading a few bytes of
// relocation for much smaller column drift relative to the original
// source — useful when no source map survives to the final consumer.
//
// A "gap" is the byte range between adjacent named children of a container
// node (document or element) that is entirely whitespace. Whitespace inside
// an html_interpolation node's { ... } is never touched, since it is
// JavaScript and can be semantically meaningful.
package rewrite

import (
	"sort"
	"unicode"

	"github.com/tmplstrip/tmplstrip/internal/cst"
	"github.com/tmplstrip/tmplstrip/internal/edit"
)

// Config controls gap-rewriting behavior.
type Config struct {
	// PreserveBlankLines, when true, leaves untouched any gap that
	// contains an empty line: two consecutive line breaks ("\n\n" or
	// "\r\n\r\n").
	PreserveBlankLines bool
}

const containerDocument = "document"
const containerElement = "element"

// Collect walks root (the tree's root node, or any node — only document and
// element kinds are treated as containers) and returns a sorted,
// non-overlapping list of gap-rewrite edits.
func Collect(source string, root cst.Node, cfg Config) []edit.Edit {
	var edits []edit.Edit

	cursor := root.Walk()
	defer cursor.Close()

	for {
		current := cursor.Node()
		switch current.Kind() {
		case containerDocument, containerElement:
			processContainerGaps(source, current, cfg, &edits)
		}

		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				sortEdits(edits)
				return edits
			}
		}
	}
}

func sortEdits(edits []edit.Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return len(a.Replacement) < len(b.Replacement)
	})
}

func processContainerGaps(source string, node cst.Node, cfg Config, edits *[]edit.Edit) {
	children := cst.NamedChildren(node)
	for i := 1; i < len(children); i++ {
		prev, next := children[i-1], children[i]

		if prev.EndByte() >= next.StartByte() {
			continue
		}

		gapStart, gapEnd := int(prev.EndByte()), int(next.StartByte())
		gap := source[gapStart:gapEnd]
		if gap == "" || !isAllWhitespace(gap) {
			continue
		}

		if cfg.PreserveBlankLines && containsBlankLine(gap) {
			continue
		}

		if delim, ok := trailingDelimiter(source, prev); ok {
			delimLen := len(delim.bytes())
			if prev.EndByte() >= uint(delimLen) {
				delimPos := int(prev.EndByte()) - delimLen
				if string(source[delimPos:int(prev.EndByte())]) == string(delim.bytes()) {
					replacement, inputOffsetForOutput := rotateDelimOverGap(delim, gap)

					origin := make([]edit.Origin, len(inputOffsetForOutput))
					for i, inOff := range inputOffsetForOutput {
						origin[i] = edit.FromInputByte(delimPos + inOff)
					}

					*edits = append(*edits, edit.Edit{
						Start:         delimPos,
						End:           gapEnd,
						Replacement:   []byte(replacement),
						Origin:        origin,
						MovedDelimLen: delimLen,
					})
					continue
				}
			}
		}

		if prev.Kind() == "text" {
			if prefixEnd, ok := openerPrefixEnd(source, next); ok && prefixEnd > gapEnd {
				prefix := []byte(source[gapEnd:prefixEnd])
				replacement, inputOffsetForOutput := rotatePrefixOverGap(prefix, gap)

				origin := make([]edit.Origin, len(inputOffsetForOutput))
				for i, inOff := range inputOffsetForOutput {
					origin[i] = edit.FromInputByte(gapStart + inOff)
				}

				*edits = append(*edits, edit.Edit{
					Start:         gapStart,
					End:           prefixEnd,
					Replacement:   []byte(replacement),
					Origin:        origin,
					MovedDelimLen: 0,
				})
			}
		}
	}
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// trailingDelim is a delimiter token that can be rotated right across a gap.
type trailingDelim int

const (
	delimGt trailingDelim = iota
	delimSlashGt
	delimCommentEnd
	delimRBrace
)

func (d trailingDelim) bytes() []byte {
	switch d {
	case delimGt:
		return []byte(">")
	case delimSlashGt:
		return []byte("/>")
	case delimCommentEnd:
		return []byte("-->")
	case delimRBrace:
		return []byte("}")
	default:
		return nil
	}
}

// trailingDelimiter infers the delimiter type that ends node. For element,
// it descends into the last named child to find the real trailing token; if
// that child's own trailing token is unrecognized, rotation is skipped for
// the gap (ok=false) rather than guessing.
func trailingDelimiter(source string, node cst.Node) (trailingDelim, bool) {
	switch node.Kind() {
	case "start_tag", "end_tag":
		return delimGt, true
	case "self_closing_tag":
		return delimSlashGt, true
	case "comment":
		return delimCommentEnd, true
	case "html_interpolation":
		return delimRBrace, true
	case "element":
		children := cst.NamedChildren(node)
		if len(children) == 0 {
			return 0, false
		}
		return trailingDelimiter(source, children[len(children)-1])
	default:
		return 0, false
	}
}

// openerPrefixEnd returns the byte offset of the end of the "opener prefix"
// for next: the token that gets rotated left across a gap so it becomes
// adjacent to preceding text.
func openerPrefixEnd(source string, next cst.Node) (int, bool) {
	start := int(next.StartByte())

	switch next.Kind() {
	case "html_interpolation":
		if start < len(source) && source[start] == '{' {
			return start + 1, true
		}
		return 0, false
	case "comment":
		if start+4 <= len(source) && source[start:start+4] == "<!--" {
			return start + 4, true
		}
		return 0, false
	case "element":
		for _, child := range cst.NamedChildren(next) {
			if child.Kind() == "start_tag" || child.Kind() == "self_closing_tag" {
				return openerPrefixEnd(source, child)
			}
		}
		return 0, false
	case "start_tag", "end_tag", "self_closing_tag":
		if start >= len(source) || source[start] != '<' {
			return 0, false
		}
		for _, child := range cst.NamedChildren(next) {
			if child.Kind() == "tag_name" {
				if int(child.EndByte()) > start {
					return int(child.EndByte()), true
				}
				return 0, false
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// containsBlankLine reports whether a whitespace-only gap contains two
// consecutive line breaks ("\n\n" or "\r\n\r\n").
func containsBlankLine(ws string) bool {
	b := []byte(ws)
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\n' && b[i+1] == '\n' {
			return true
		}
	}
	for i := 0; i+3 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' && b[i+2] == '\r' && b[i+3] == '\n' {
			return true
		}
	}
	return false
}

// rotateDelimOverGap moves a trailing delimiter across gap, optionally
// stealing up to maxSteal(delim) indentation bytes from the final line of
// gap to preserve the next node's column. The input segment is
// conceptually delim+gap (offsets 0..delimLen for delim, delimLen..
// delimLen+len(gap) for gap); the returned offsets index into that segment.
func rotateDelimOverGap(delim trailingDelim, gap string) (string, []int) {
	delimBytes := delim.bytes()
	delimLen := len(delimBytes)

	gapBytes := []byte(gap)
	gapLen := len(gapBytes)

	lastLineStart := 0
	for i, b := range gapBytes {
		if b == '\n' {
			lastLineStart = i + 1
		}
	}

	maxSteal := 1
	if delim == delimSlashGt {
		maxSteal = 2
	}

	var stealIndices []int
	if maxSteal > 0 && lastLineStart < gapLen {
		i := gapLen
		for i > lastLineStart && len(stealIndices) < maxSteal {
			b := gapBytes[i-1]
			if b == ' ' || b == '\t' {
				stealIndices = append(stealIndices, i-1)
				i--
			} else {
				break
			}
		}
		sort.Ints(stealIndices)
	}

	replacement := make([]byte, 0, delimLen+gapLen)
	inputOffsetForOutput := make([]int, 0, delimLen+gapLen)

	if len(stealIndices) > 0 {
		stolen := make(map[int]bool, len(stealIndices))
		for _, si := range stealIndices {
			stolen[si] = true
		}

		for _, si := range stealIndices {
			replacement = append(replacement, gapBytes[si])
			inputOffsetForOutput = append(inputOffsetForOutput, delimLen+si)
		}
		for i, b := range gapBytes {
			if stolen[i] {
				continue
			}
			replacement = append(replacement, b)
			inputOffsetForOutput = append(inputOffsetForOutput, delimLen+i)
		}
		for i, b := range delimBytes {
			replacement = append(replacement, b)
			inputOffsetForOutput = append(inputOffsetForOutput, i)
		}
		return string(replacement), inputOffsetForOutput
	}

	for i, b := range gapBytes {
		replacement = append(replacement, b)
		inputOffsetForOutput = append(inputOffsetForOutput, delimLen+i)
	}
	for i, b := range delimBytes {
		replacement = append(replacement, b)
		inputOffsetForOutput = append(inputOffsetForOutput, i)
	}
	return string(replacement), inputOffsetForOutput
}

// rotatePrefixOverGap moves an opener prefix left across gap. The input
// segment is conceptually gap+prefix (offsets 0..len(gap) for gap,
// len(gap)..len(gap)+len(prefix) for prefix); the returned offsets index
// into that segment. This rotation never steals bytes.
func rotatePrefixOverGap(prefix []byte, gap string) (string, []int) {
	gapBytes := []byte(gap)
	gapLen := len(gapBytes)
	prefixLen := len(prefix)

	replacement := make([]byte, 0, gapLen+prefixLen)
	inputOffsetForOutput := make([]int, 0, gapLen+prefixLen)

	for i, b := range prefix {
		replacement = append(replacement, b)
		inputOffsetForOutput = append(inputOffsetForOutput, gapLen+i)
	}
	for i, b := range gapBytes {
		replacement = append(replacement, b)
		inputOffsetForOutput = append(inputOffsetForOutput, i)
	}
	return string(replacement), inputOffsetForOutput
}
