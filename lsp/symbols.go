// Copyright © 2026 The futurec authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request. Every block is a symbol and its hook markers are children.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for _, sc := range analysis.ScanScripts(doc) {
		detail := sc.String()
		sym := protocol.DocumentSymbol{
			Name:           symbolName(sc),
			Detail:         &detail,
			Kind:           mapScriptSymbolKind(sc.Kind),
			Range:          toLSPRange(sc.Range),
			SelectionRange: toLSPRange(sc.HeaderRange),
		}
		for _, h := range sc.Hooks {
			if h.Malformed {
				continue
			}
			r := toLSPRange(h.Range)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           h.Name,
				Kind:           protocol.SymbolKindEvent,
				Range:          r,
				SelectionRange: r,
			})
		}
		symbols = append(symbols, sym)
	}

	// Return as []DocumentSymbol (the preferred hierarchical form).
	return symbols, nil
}

// symbolName labels a block by number and name, e.g. "12 Invoice" or
// "12 hook BeforeSave" for an insertion into hook BeforeSave.
func symbolName(sc *analysis.Script) string {
	if sc.Kind == analysis.KindInsertion {
		return sc.IDText + " hook " + sc.Name
	}
	if sc.Name == "" {
		return sc.IDText
	}
	return sc.IDText + " " + sc.Name
}
