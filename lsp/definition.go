// Copyright © 2026 The futurec authors

package lsp

import (
	"strconv"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// textDocumentDefinition handles the textDocument/definition request. An
// includescript argument, or the header of an insertion block, leads to
// the SCRIPT blocks defining the number.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	id, ok := scriptNumberAt(doc, params.Position)
	if !ok {
		return nil, nil
	}

	ws, err := s.fullWorkspace()
	if err != nil {
		return nil, err
	}
	ix, err := ws.Index()
	if err != nil {
		return nil, err
	}
	defs := ix.Definitions(id)
	switch len(defs) {
	case 0:
		return nil, nil
	case 1:
		return scriptLocation(defs[0]), nil
	}
	locs := make([]protocol.Location, 0, len(defs))
	for _, d := range defs {
		locs = append(locs, scriptLocation(d))
	}
	return locs, nil
}

// scriptNumberAt returns the script number referenced at p: the argument
// of an includescript directive or the id of the block header under the
// cursor.
func scriptNumberAt(doc *document.Document, p protocol.Position) (int, bool) {
	info := analysis.Classify(doc, fromLSPPosition(p))
	if info.Kind == analysis.CursorIncludeScript {
		return parseScriptNumber(info.Text)
	}
	sc := scriptAt(doc, p)
	if sc == nil || sc.ID < 0 || !sc.HeaderRange.Contains(fromLSPPosition(p)) {
		return 0, false
	}
	return sc.ID, true
}

// parseScriptNumber parses the decimal id of an includescript argument.
func parseScriptNumber(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}
