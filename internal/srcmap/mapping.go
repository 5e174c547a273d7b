// Package srcmap creates and rewrites Source Map v3 documents for the
// whitespace gap-rotation transform: a single-pass point-mapping builder, not
// the incremental multi-chunk joiner a bundler needs.
package srcmap

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Unmapped is the sentinel line/column value (-1) for a mapping entry with no
// corresponding source position. Serialized maps never carry it: an unmapped
// segment is written with its generated column only.
const Unmapped int32 = -1

// Token is one decoded mapping segment: a generated (dst) position plus,
// when HasSource, the original (src) position it traces back to.
type Token struct {
	DstLine, DstCol int32
	HasSource       bool
	SrcLine, SrcCol int32
	Source          string
	HasName         bool
	Name            string
}

// document is the JSON-serializable shape of a Source Map v3 file.
// SourcesContent entries are nil for a source whose original text is not
// known (e.g. a rewritten upstream map whose sources were never read),
// serialized as JSON null rather than a lying empty string.
type document struct {
	Version        int       `json:"version"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names,omitempty"`
	Mappings       string    `json:"mappings"`
}

// SourceMap is a parsed Source Map v3 document, with its mappings field
// decoded into Tokens sorted by destination position.
type SourceMap struct {
	Sources        []string
	SourcesContent []*string
	Names          []string
	Tokens         []Token
}

// Parse decodes a Source Map v3 JSON document.
func Parse(data []byte) (*SourceMap, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("srcmap: parse: %w", err)
	}

	sm := &SourceMap{
		Sources:        doc.Sources,
		SourcesContent: doc.SourcesContent,
		Names:          doc.Names,
	}

	var dstLine, srcIdx, srcLine, srcCol, nameIdx int32
	for _, lineSeg := range splitTop(doc.Mappings, ';') {
		dstCol := int32(0)
		for _, seg := range splitTop(lineSeg, ',') {
			if seg == "" {
				continue
			}
			b := []byte(seg)
			pos := 0

			var delta int32
			delta, pos = decodeVLQ(b, pos)
			dstCol += delta

			tok := Token{DstLine: dstLine, DstCol: dstCol}

			if pos < len(b) {
				delta, pos = decodeVLQ(b, pos)
				srcIdx += delta
				delta, pos = decodeVLQ(b, pos)
				srcLine += delta
				delta, pos = decodeVLQ(b, pos)
				srcCol += delta

				tok.HasSource = true
				tok.SrcLine = srcLine
				tok.SrcCol = srcCol
				if int(srcIdx) >= 0 && int(srcIdx) < len(sm.Sources) {
					tok.Source = sm.Sources[srcIdx]
				}

				if pos < len(b) {
					delta, _ = decodeVLQ(b, pos)
					nameIdx += delta
					tok.HasName = true
					if int(nameIdx) >= 0 && int(nameIdx) < len(sm.Names) {
						tok.Name = sm.Names[nameIdx]
					}
				}
			}

			sm.Tokens = append(sm.Tokens, tok)
		}
		dstLine++
	}

	return sm, nil
}

func splitTop(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// LookupToken returns the mapping with the greatest destination position at
// or before (line, column) on the same generated line, matching the lookup
// behavior of the popular "source-map" library that source map consumers
// implement against.
func (sm *SourceMap) LookupToken(line, col int32) (Token, bool) {
	tokens := sm.Tokens
	count := len(tokens)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		t := tokens[i]
		if t.DstLine < line || (t.DstLine == line && t.DstCol <= col) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	if index > 0 {
		t := tokens[index-1]
		if t.DstLine == line {
			return t, true
		}
	}
	return Token{}, false
}

// builderEntry is one not-yet-serialized mapping, referencing sources/names
// by the builder's own interned index rather than by name.
type builderEntry struct {
	dstLine, dstCol int32
	hasSource       bool
	srcIdx          int32
	srcLine, srcCol int32
	hasName         bool
	nameIdx         int32
}

// Builder accumulates mapping entries and interned sources/names, then
// serializes them into a Source Map v3 document.
type Builder struct {
	sources        []string
	sourcesIndex   map[string]int
	sourcesContent []*string
	names          []string
	namesIndex     map[string]int
	entries        []builderEntry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		sourcesIndex: make(map[string]int),
		namesIndex:   make(map[string]int),
	}
}

// AddSource interns filename as a source, recording content as its
// sourcesContent entry, and returns its index.
func (b *Builder) AddSource(filename, content string) int {
	i := b.internSource(filename)
	b.sourcesContent[i] = &content
	return i
}

// internSource interns filename as a source without touching any
// previously recorded sourcesContent for it, and returns its index. A
// newly-interned source's content is left nil ("unknown"), not "" — callers
// that never learn a source's text (e.g. rewriting an upstream map whose
// sources were never read) must not claim it is empty.
func (b *Builder) internSource(filename string) int {
	if i, ok := b.sourcesIndex[filename]; ok {
		return i
	}
	i := len(b.sources)
	b.sources = append(b.sources, filename)
	b.sourcesContent = append(b.sourcesContent, nil)
	b.sourcesIndex[filename] = i
	return i
}

func (b *Builder) internName(name string) int32 {
	if i, ok := b.namesIndex[name]; ok {
		return int32(i)
	}
	i := len(b.names)
	b.names = append(b.names, name)
	b.namesIndex[name] = i
	return int32(i)
}

// Add records one mapping. hasSource false marks the entry as unmapped
// (Unmapped dst/src semantics are handled by callers before calling Add); an
// empty source/name string with hasSource/hasName false means "no name".
func (b *Builder) Add(dstLine, dstCol, srcLine, srcCol int32, source string, hasSource bool, name string, hasName bool) {
	e := builderEntry{dstLine: dstLine, dstCol: dstCol}
	if hasSource {
		e.hasSource = true
		e.srcIdx = int32(b.internSource(source))
		e.srcLine = srcLine
		e.srcCol = srcCol
	}
	if hasName {
		e.hasName = true
		e.nameIdx = b.internName(name)
	}
	b.entries = append(b.entries, e)
}

// String serializes the accumulated entries into a Source Map v3 JSON
// document, sorted by destination position.
func (b *Builder) String() string {
	entries := append([]builderEntry(nil), b.entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		a, bb := entries[i], entries[j]
		if a.dstLine != bb.dstLine {
			return a.dstLine < bb.dstLine
		}
		return a.dstCol < bb.dstCol
	})

	var mappings []byte
	var prevDstLine int32
	var prevDstCol, prevSrcIdx, prevSrcLine, prevSrcCol, prevNameIdx int32

	for _, e := range entries {
		for prevDstLine < e.dstLine {
			mappings = append(mappings, ';')
			prevDstLine++
			prevDstCol = 0
		}

		if len(mappings) > 0 {
			last := mappings[len(mappings)-1]
			if last != ';' {
				mappings = append(mappings, ',')
			}
		}

		mappings = encodeVLQ(mappings, e.dstCol-prevDstCol)
		prevDstCol = e.dstCol

		if e.hasSource {
			mappings = encodeVLQ(mappings, e.srcIdx-prevSrcIdx)
			mappings = encodeVLQ(mappings, e.srcLine-prevSrcLine)
			mappings = encodeVLQ(mappings, e.srcCol-prevSrcCol)
			prevSrcIdx, prevSrcLine, prevSrcCol = e.srcIdx, e.srcLine, e.srcCol

			if e.hasName {
				mappings = encodeVLQ(mappings, e.nameIdx-prevNameIdx)
				prevNameIdx = e.nameIdx
			}
		}
	}

	doc := document{
		Version:        3,
		Sources:        b.sources,
		SourcesContent: b.sourcesContent,
		Names:          b.names,
		Mappings:       string(mappings),
	}
	if doc.Sources == nil {
		doc.Sources = []string{}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		// document only contains an int, strings and string slices; Marshal
		// cannot fail.
		panic(fmt.Sprintf("srcmap: marshal: %v", err))
	}
	return string(out)
}
