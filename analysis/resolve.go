// Copyright © 2026 The futurec authors

package analysis

import (
	"fmt"

	"github.com/futurec/futurec/diagnostic"
)

// CodeDanglingInclude names diagnostics for includes of undefined scripts.
const CodeDanglingInclude = "dangling-include"

// Resolution is the reachability set of a focal document.
type Resolution struct {
	// Scripts lists the focal document's blocks in textual order followed
	// by transitively included scripts in breadth-first discovery order.
	Scripts []*Script
	// Diagnostics reports includes whose target is not defined anywhere.
	Diagnostics []diagnostic.Diagnostic
}

// AllScripts returns every block reachable from the document at focalURI.
//
// All blocks of the focal document are emitted first. The includes of
// each focal block are then followed in order, depth first: an included
// script is appended, followed by its own transitive includes, before the
// next include is looked at. Script ids are visited at most once, so
// include cycles terminate. AllScripts fails only when a document cannot
// be read.
func AllScripts(ws *Workspace, focalURI string) (*Resolution, error) {
	focal, err := ws.Scripts(focalURI)
	if err != nil {
		return nil, err
	}
	r := &resolver{
		ws:      ws,
		res:     &Resolution{},
		visited: make(map[string]bool),
	}
	for _, s := range focal {
		r.visited[s.key()] = true
		r.res.Scripts = append(r.res.Scripts, s)
	}
	for _, s := range focal {
		if err := r.follow(s); err != nil {
			return nil, err
		}
	}
	return r.res, nil
}

type resolver struct {
	ws      *Workspace
	ix      *Index
	res     *Resolution
	visited map[string]bool
}

// follow appends the unvisited scripts included by s, each followed by
// its own includes.
func (r *resolver) follow(s *Script) error {
	for _, inc := range s.Includes {
		if !inc.Valid {
			continue
		}
		key := includeKey(inc.ID)
		if r.visited[key] {
			continue
		}
		if r.ix == nil {
			ix, err := r.ws.Index()
			if err != nil {
				return err
			}
			r.ix = ix
		}
		target := r.ix.Lookup(inc.ID)
		if target == nil {
			r.res.Diagnostics = append(r.res.Diagnostics, DanglingInclude(s, inc))
			continue
		}
		r.visited[key] = true
		r.res.Scripts = append(r.res.Scripts, target)
		if err := r.follow(target); err != nil {
			return err
		}
	}
	return nil
}

func includeKey(id int) string {
	return (&Script{Kind: KindScript, ID: id}).key()
}

// DanglingInclude returns the diagnostic reported for an include of a
// script id that no block defines.
func DanglingInclude(s *Script, inc Include) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		URI:      s.URI,
		Range:    inc.Range,
		Severity: diagnostic.SeverityError,
		Message:  fmt.Sprintf("includescript %d: no script with this number exists", inc.ID),
		Code:     CodeDanglingInclude,
	}
}
