// Copyright © 2026 The futurec authors

package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toLSPPosition converts a document position. Both are 0-based with
// UTF-16 characters.
func toLSPPosition(p document.Position) protocol.Position {
	return protocol.Position{Line: safeUint(p.Line), Character: safeUint(p.Character)}
}

func toLSPRange(r document.Range) protocol.Range {
	return protocol.Range{Start: toLSPPosition(r.Start), End: toLSPPosition(r.End)}
}

func fromLSPPosition(p protocol.Position) document.Position {
	return document.Position{Line: int(p.Line), Character: int(p.Character)}
}

// scriptLocation points at the header of a script block.
func scriptLocation(s *analysis.Script) protocol.Location {
	return protocol.Location{URI: s.URI, Range: toLSPRange(s.HeaderRange)}
}

// offsetAt converts an LSP position to a byte offset of doc.
func offsetAt(doc *document.Document, p protocol.Position) (int, bool) {
	return doc.OffsetAt(fromLSPPosition(p))
}

// scriptAt returns the block of doc containing the position, or nil.
func scriptAt(doc *document.Document, p protocol.Position) *analysis.Script {
	offset, ok := offsetAt(doc, p)
	if !ok {
		return nil
	}
	return analysis.ScriptAt(analysis.ScanScripts(doc), offset)
}

// mapScriptSymbolKind picks the LSP symbol kind for a block.
func mapScriptSymbolKind(k analysis.Kind) protocol.SymbolKind {
	if k == analysis.KindInsertion {
		return protocol.SymbolKindEvent
	}
	return protocol.SymbolKindModule
}
