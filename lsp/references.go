// Copyright © 2026 The futurec authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request. The
// references of a script number are its includescript sites and the
// headers of the insertion blocks targeting it.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
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

	var locs []protocol.Location

	// Optionally include the declaration.
	if params.Context.IncludeDeclaration {
		for _, d := range ix.Definitions(id) {
			locs = append(locs, scriptLocation(d))
		}
	}
	for _, site := range ix.IncludeSites(id) {
		locs = append(locs, protocol.Location{
			URI:   site.Script.URI,
			Range: toLSPRange(site.Include.Range),
		})
	}
	for _, ins := range ix.Insertions(id) {
		locs = append(locs, scriptLocation(ins))
	}
	return locs, nil
}
