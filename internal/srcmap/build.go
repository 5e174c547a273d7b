package srcmap

import (
	"sort"

	"github.com/tmplstrip/tmplstrip/internal/edit"
	"github.com/tmplstrip/tmplstrip/internal/utf16idx"
)

// noByte is the sentinel for "no corresponding byte" in the output-to-input
// and input-to-output maps built below.
const noByte = -1

// CreateSourceMap builds a brand-new Source Map v3 document mapping
// outputCode back to inputCode.
//
// Unchanged bytes map 1:1; bytes originating from a moved delimiter or
// opener prefix map back to their recorded origin byte; inserted bytes with
// no origin are emitted unmapped. Line/column positions are UTF-16 code unit
// columns, matching what JS sourcemap consumers expect. If outputCode's
// length does not match what edits imply, the map covers the overlapping
// prefix only — best effort, not an error.
func CreateSourceMap(inputCode, outputCode, sourceFilename string, edits []edit.Edit) (string, error) {
	inLen := len(inputCode)
	outLen := len(outputCode)

	inLineStarts := utf16idx.ComputeLineStarts(inputCode)
	outLineStarts := utf16idx.ComputeLineStarts(outputCode)
	inIdx := utf16idx.New(inputCode, inLineStarts)
	outIdx := utf16idx.New(outputCode, outLineStarts)

	spans, expectedOutLen := edit.OutputSpans(inLen, edits)
	mapLen := min(outLen, expectedOutLen)
	outToIn := buildOutputToInputMap(inLen, mapLen, spans)

	b := NewBuilder()
	b.AddSource(sourceFilename, inputCode)

	for _, outStart := range outLineStarts {
		if outStart >= mapLen {
			break
		}
		addAnchorCreate(b, outIdx, inIdx, outToIn, outStart, sourceFilename, inLen)
	}

	for _, sp := range spans {
		if sp.OutStart < mapLen {
			addAnchorCreate(b, outIdx, inIdx, outToIn, sp.OutStart, sourceFilename, inLen)
		}

		if sp.Edit.MovedDelimLen > 0 && sp.OutEnd >= sp.Edit.MovedDelimLen {
			outDelim := sp.OutEnd - sp.Edit.MovedDelimLen
			if outDelim < mapLen {
				addAnchorCreate(b, outIdx, inIdx, outToIn, outDelim, sourceFilename, inLen)
			}

			if sp.Edit.MovedDelimLen > 1 {
				outDelimLast := sp.OutEnd - 1
				if outDelimLast < 0 {
					outDelimLast = 0
				}
				if outDelimLast < mapLen {
					addAnchorCreate(b, outIdx, inIdx, outToIn, outDelimLast, sourceFilename, inLen)
				}
			}
		}

		if sp.Edit.MovedDelimLen > 0 && sp.OutEnd < mapLen {
			addAnchorCreate(b, outIdx, inIdx, outToIn, sp.OutEnd, sourceFilename, inLen)
		}
	}

	return b.String(), nil
}

func addAnchorCreate(b *Builder, outIdx, inIdx *utf16idx.Index, outToIn []int, outByte int, sourceFilename string, inLen int) {
	outLine, outCol := outIdx.ByteToLineCol(outByte)

	inByte := noByte
	if outByte < len(outToIn) {
		inByte = outToIn[outByte]
	}
	if inByte >= 0 && inByte < inLen {
		inLine, inCol := inIdx.ByteToLineCol(inByte)
		b.Add(int32(outLine), int32(outCol), int32(inLine), int32(inCol), sourceFilename, true, "", false)
	} else {
		b.Add(int32(outLine), int32(outCol), 0, 0, "", false, "", false)
	}
}

// RewriteSourceMap remaps an existing sourcemap for inputCode so that it
// applies to outputCode, by pushing every upstream token's generated
// position through edits. Tokens that land in a deleted region are dropped;
// inserted bytes are emitted unmapped.
func RewriteSourceMap(inputCode, outputCode, inputSourcemapJSON string, edits []edit.Edit) (string, error) {
	inputMap, err := Parse([]byte(inputSourcemapJSON))
	if err != nil {
		return "", err
	}

	inLen := len(inputCode)
	outLen := len(outputCode)

	inLineStarts := utf16idx.ComputeLineStarts(inputCode)
	outLineStarts := utf16idx.ComputeLineStarts(outputCode)
	inIdx := utf16idx.New(inputCode, inLineStarts)
	outIdx := utf16idx.New(outputCode, outLineStarts)

	spans, expectedOutLen := edit.OutputSpans(inLen, edits)
	mapOutLen := min(outLen, expectedOutLen)
	outToIn := buildOutputToInputMap(inLen, mapOutLen, spans)
	inToOut := buildInputToOutputMap(inLen, mapOutLen, spans)

	var mappings []rewriteMapping

	for _, tok := range inputMap.Tokens {
		inByte, ok := inIdx.LineColToByte(int(tok.DstLine), int(tok.DstCol))
		if !ok || inByte >= len(inToOut) {
			continue
		}
		outByte := inToOut[inByte]
		if outByte == noByte {
			continue
		}
		outLine, outCol := outIdx.ByteToLineCol(outByte)

		mappings = append(mappings, rewriteMapping{
			dstLine: int32(outLine), dstCol: int32(outCol),
			hasSource: tok.HasSource, srcLine: tok.SrcLine, srcCol: tok.SrcCol, source: tok.Source,
			hasName: tok.HasName, name: tok.Name,
		})
	}

	addAnchor := func(outByte int) {
		if outByte < 0 || outByte >= len(outToIn) {
			return
		}
		outLine, outCol := outIdx.ByteToLineCol(outByte)
		inByte := outToIn[outByte]
		if inByte == noByte {
			mappings = append(mappings, rewriteMapping{dstLine: int32(outLine), dstCol: int32(outCol)})
			return
		}
		inLine, inCol := inIdx.ByteToLineCol(inByte)
		tok, ok := inputMap.LookupToken(int32(inLine), int32(inCol))
		m := rewriteMapping{dstLine: int32(outLine), dstCol: int32(outCol)}
		if ok {
			m.hasSource, m.srcLine, m.srcCol, m.source = tok.HasSource, tok.SrcLine, tok.SrcCol, tok.Source
			m.hasName, m.name = tok.HasName, tok.Name
		}
		mappings = append(mappings, m)
	}

	for _, sp := range spans {
		if sp.Edit.MovedDelimLen == 0 {
			continue
		}

		if sp.OutStart < mapOutLen {
			addAnchor(sp.OutStart)
		}

		if sp.Edit.MovedDelimLen > 0 && sp.OutEnd >= sp.Edit.MovedDelimLen {
			outDelim := sp.OutEnd - sp.Edit.MovedDelimLen
			if outDelim < mapOutLen {
				addAnchor(outDelim)
			}
			if sp.Edit.MovedDelimLen > 1 {
				outDelimLast := sp.OutEnd - 1
				if outDelimLast < 0 {
					outDelimLast = 0
				}
				if outDelimLast < mapOutLen {
					addAnchor(outDelimLast)
				}
			}
		}

		if sp.OutEnd < mapOutLen && sp.Edit.End < inLen {
			outLine, outCol := outIdx.ByteToLineCol(sp.OutEnd)
			inLine, inCol := inIdx.ByteToLineCol(sp.Edit.End)
			tok, ok := inputMap.LookupToken(int32(inLine), int32(inCol))
			m := rewriteMapping{dstLine: int32(outLine), dstCol: int32(outCol)}
			if ok {
				m.hasSource, m.srcLine, m.srcCol, m.source = tok.HasSource, tok.SrcLine, tok.SrcCol, tok.Source
				m.hasName, m.name = tok.HasName, tok.Name
			}
			mappings = append(mappings, m)
		}
	}

	mappings = sortAndDedupMappings(mappings)

	b := NewBuilder()
	for _, m := range mappings {
		b.Add(m.dstLine, m.dstCol, m.srcLine, m.srcCol, m.source, m.hasSource, m.name, m.hasName)
	}
	return b.String(), nil
}

// rewriteMapping is one destination->source point mapping collected while
// rewriting a sourcemap, before being handed to a Builder.
type rewriteMapping struct {
	dstLine, dstCol int32
	hasSource       bool
	srcLine, srcCol int32
	source          string
	hasName         bool
	name            string
}

// sortAndDedupMappings orders mappings by destination position and keeps one
// entry per distinct position, preferring a mapped entry over an unmapped
// one when both target the same destination.
func sortAndDedupMappings(mappings []rewriteMapping) []rewriteMapping {
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		if a.dstLine != b.dstLine {
			return a.dstLine < b.dstLine
		}
		if a.dstCol != b.dstCol {
			return a.dstCol < b.dstCol
		}
		return a.hasSource && !b.hasSource
	})

	deduped := mappings[:0]
	for i, m := range mappings {
		if i > 0 && m.dstLine == deduped[len(deduped)-1].dstLine && m.dstCol == deduped[len(deduped)-1].dstCol {
			continue
		}
		deduped = append(deduped, m)
	}
	return deduped
}

// buildOutputToInputMap returns, for each output byte offset in [0,
// outputLen), the originating input byte offset (or noByte if the output
// byte is inserted/unmapped).
func buildOutputToInputMap(inputLen, outputLen int, spans []edit.Span) []int {
	outToIn := make([]int, outputLen)
	for i := range outToIn {
		outToIn[i] = noByte
	}

	inCursor, outCursor := 0, 0

	for _, sp := range spans {
		e := sp.Edit
		if e.Start > inCursor {
			n := e.Start - inCursor
			for i := 0; i < n; i++ {
				inByte, outByte := inCursor+i, outCursor+i
				if outByte >= outputLen {
					return outToIn
				}
				if inByte < inputLen {
					outToIn[outByte] = inByte
				}
			}
			outCursor += n
		}

		if sp.OutStart != outCursor {
			outCursor = sp.OutStart
		}

		for j, origin := range e.Origin {
			outByte := outCursor + j
			if outByte >= outputLen {
				return outToIn
			}
			if !origin.IsInserted() && origin.InputByte() < inputLen {
				outToIn[outByte] = origin.InputByte()
			}
		}

		inCursor = e.End
		outCursor = sp.OutEnd
	}

	if inCursor < inputLen {
		for inByte := inCursor; inByte < inputLen; inByte++ {
			outByte := outCursor + (inByte - inCursor)
			if outByte >= outputLen {
				break
			}
			outToIn[outByte] = inByte
		}
	}

	return outToIn
}

// buildInputToOutputMap returns, for each input byte offset in [0,
// inputLen), the output byte offset it survives to (or noByte if deleted).
func buildInputToOutputMap(inputLen, outputLen int, spans []edit.Span) []int {
	inToOut := make([]int, inputLen)
	for i := range inToOut {
		inToOut[i] = noByte
	}

	inCursor, outCursor := 0, 0

	for _, sp := range spans {
		e := sp.Edit
		if e.Start > inCursor {
			n := e.Start - inCursor
			for i := 0; i < n; i++ {
				inByte, outByte := inCursor+i, outCursor+i
				if outByte >= outputLen {
					return inToOut
				}
				inToOut[inByte] = outByte
			}
			outCursor += n
		}

		if sp.OutStart != outCursor {
			outCursor = sp.OutStart
		}

		for j, origin := range e.Origin {
			outByte := outCursor + j
			if outByte >= outputLen {
				break
			}
			if !origin.IsInserted() && origin.InputByte() < inputLen {
				inToOut[origin.InputByte()] = outByte
			}
		}

		inCursor = e.End
		outCursor = sp.OutEnd
	}

	if inCursor < inputLen {
		for i := inCursor; i < inputLen; i++ {
			outByte := outCursor + (i - inCursor)
			if outByte >= outputLen {
				break
			}
			inToOut[i] = outByte
		}
	}

	return inToOut
}
