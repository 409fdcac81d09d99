// Copyright © 2026 The futurec authors

package lsp

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// workspaceSymbol handles the workspace/symbol request.
// It returns every block in the workspace whose label fuzzy-matches the
// query, best matches first. An empty query returns all blocks in index
// order.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	ws, err := s.fullWorkspace()
	if err != nil {
		return nil, err
	}
	ix, err := ws.Index()
	if err != nil {
		return nil, err
	}
	return matchSymbols(ix.Scripts(), params.Query), nil
}

// matchSymbols converts the blocks matching query to symbol information.
func matchSymbols(scripts []*analysis.Script, query string) []protocol.SymbolInformation {
	type match struct {
		sc   *analysis.Script
		dist int
	}
	var matches []match
	for _, sc := range scripts {
		name := symbolName(sc)
		if query == "" {
			matches = append(matches, match{sc: sc})
			continue
		}
		if d := fuzzy.RankMatchFold(query, name); d >= 0 {
			matches = append(matches, match{sc: sc, dist: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	results := make([]protocol.SymbolInformation, 0, len(matches))
	for _, m := range matches {
		container := document.PathFromURI(m.sc.URI)
		results = append(results, protocol.SymbolInformation{
			Name:          symbolName(m.sc),
			Kind:          mapScriptSymbolKind(m.sc.Kind),
			Location:      scriptLocation(m.sc),
			ContainerName: &container,
		})
	}
	return results
}
