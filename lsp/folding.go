// Copyright © 2026 The futurec authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line script blocks and consecutive
// comment lines inside them.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange
	for _, sc := range analysis.ScanScripts(doc) {
		start, end := sc.Range.Start.Line, sc.Range.End.Line
		// A block cut short by the next header ends on the line before it.
		if !sc.Terminated && sc.Range.End.Character == 0 && end > start {
			end--
		}
		if end > start {
			kind := string(protocol.FoldingRangeKindRegion)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
		ranges = append(ranges, commentFoldingRanges(doc, start, end)...)
	}
	return ranges, nil
}

// commentFoldingRanges detects runs of lines starting with "//" between
// lines first and last and produces a folding range for each run of 2+
// lines. Hook markers are not comments.
func commentFoldingRanges(doc *document.Document, first, last int) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	emit := func(from, to int) {
		if to > from {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(from),
				EndLine:   safeUint(to),
				Kind:      &kind,
			})
		}
	}

	blockStart := -1
	for i := first; i <= last && i < doc.LineCount(); i++ {
		trimmed := strings.TrimSpace(doc.Line(i))
		if strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "//ADDHOOK") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		if blockStart >= 0 {
			emit(blockStart, i-1)
		}
		blockStart = -1
	}
	if blockStart >= 0 {
		emit(blockStart, min(last, doc.LineCount()-1))
	}
	return ranges
}
