// Copyright © 2026 The futurec authors

package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/futurec/futurec/document"
)

// tocPattern matches a table of contents line: "<number>\t<name>".
var tocPattern = regexp.MustCompile(`^\s*([0-9]+)\t+\S`)

// InsertPoint tells an editor where a new block and its table of contents
// entry belong in a host document.
type InsertPoint struct {
	// Exists is set when the block is already defined. Script is then
	// the position of its header.
	Exists bool
	Script document.Position
	// TOC is the line for the table of contents entry, -1 when the block
	// exists.
	TOC document.Position
}

// FindInsertPoint locates where a new script (hook == "") or hook
// insertion block for script number belongs in doc so that blocks stay
// ordered by number and hook name. Blocks in others are also checked for
// an existing definition.
func FindInsertPoint(doc *document.Document, number int, hook string, others ...*document.Document) InsertPoint {
	kind := KindScript
	if hook != "" {
		kind = KindInsertion
	}
	scripts := ScanScripts(doc)
	for _, d := range append([]*document.Document{doc}, others...) {
		candidates := scripts
		if d != doc {
			candidates = ScanScripts(d)
		}
		for _, s := range candidates {
			if s.Kind == kind && s.ID == number && (kind == KindScript || s.Name == hook) {
				return InsertPoint{Exists: true, Script: s.HeaderRange.Start, TOC: document.Position{Line: -1}}
			}
		}
	}

	return InsertPoint{
		Script: blockInsertPosition(doc, scripts, kind, number, hook),
		TOC:    tocInsertPosition(doc, scripts, number),
	}
}

func blockInsertPosition(doc *document.Document, scripts []*Script, kind Kind, number int, hook string) document.Position {
	var prev, next *Script
	for _, s := range scripts {
		if s.Kind != kind || s.ID < 0 {
			continue
		}
		if s.ID < number || (s.ID == number && s.Name < hook) {
			prev = s
		} else if next == nil {
			next = s
		}
	}
	switch {
	case prev != nil:
		line := doc.LineAt(prev.End) + 1
		if line >= doc.LineCount() {
			return doc.PositionAt(len(doc.Text))
		}
		return document.Position{Line: line}
	case next != nil:
		line := doc.LineAt(next.Start)
		for line > 0 && strings.HasPrefix(strings.TrimSpace(doc.Line(line-1)), "//") {
			line--
		}
		return document.Position{Line: line}
	}
	return doc.PositionAt(len(doc.Text))
}

// tocInsertPosition finds the line for a table of contents entry. The
// table is the run of "<number>\t<name>" lines before the first block.
// Entries for the same number keep their order.
func tocInsertPosition(doc *document.Document, scripts []*Script, number int) document.Position {
	limit := doc.LineCount()
	if len(scripts) > 0 {
		limit = doc.LineAt(scripts[0].Start)
	}
	last := -1
	for line := 0; line < limit; line++ {
		m := tocPattern.FindStringSubmatch(doc.Line(line))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > number {
			return document.Position{Line: line}
		}
		last = line
	}
	return document.Position{Line: last + 1}
}
