// Copyright © 2026 The futurec authors

// Package document holds immutable text documents and the read-only
// document sets (snapshots) that a single request works against.
//
// Offsets are byte offsets into the UTF-8 text. Positions follow the
// language server protocol: 0-based lines and 0-based UTF-16 characters.
package document

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a 0-based line and UTF-16 character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Less reports whether p sorts before q.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Range is a half-open span of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r. The end position is
// included so that a cursor placed just after a token still hits it.
func (r Range) Contains(pos Position) bool {
	return !pos.Less(r.Start) && !r.End.Less(pos)
}

// Document is an immutable snapshot of one text document.
type Document struct {
	URI  string
	Text string

	lines []int // byte offset of the first byte of each line
}

// New returns a document for text identified by uri.
func New(uri, text string) *Document {
	d := &Document{URI: uri, Text: text}
	d.lines = append(d.lines, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.lines = append(d.lines, i+1)
		}
	}
	return d
}

// LineCount returns the number of lines in the document. A trailing
// newline starts a final empty line.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LineStart returns the byte offset at which line n begins.
func (d *Document) LineStart(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(d.lines) {
		return len(d.Text)
	}
	return d.lines[n]
}

// LineEnd returns the byte offset of the end of line n, excluding the line
// terminator.
func (d *Document) LineEnd(n int) int {
	if n < 0 {
		return 0
	}
	end := len(d.Text)
	if n+1 < len(d.lines) {
		end = d.lines[n+1] - 1
	}
	if end > d.LineStart(n) && d.Text[end-1] == '\r' {
		end--
	}
	return end
}

// Line returns the text of line n without its terminator.
func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.Text[d.LineStart(n):d.LineEnd(n)]
}

// LineAt returns the 0-based line containing offset.
func (d *Document) LineAt(offset int) int {
	if offset <= 0 {
		return 0
	}
	// Index of the first line starting after offset, minus one.
	return sort.SearchInts(d.lines, offset+1) - 1
}

// PositionAt converts a byte offset to a position. Offsets outside the
// text are clamped.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	line := d.LineAt(offset)
	return Position{Line: line, Character: utf16Len(d.Text[d.LineStart(line):offset])}
}

// OffsetAt converts a position to a byte offset. The second result is
// false when the position lies outside the document.
func (d *Document) OffsetAt(pos Position) (int, bool) {
	if pos.Line < 0 || pos.Line >= len(d.lines) || pos.Character < 0 {
		return 0, false
	}
	start := d.LineStart(pos.Line)
	end := d.LineEnd(pos.Line)
	units := 0
	for i := start; i < end; {
		if units >= pos.Character {
			return i, true
		}
		c, n := utf8.DecodeRuneInString(d.Text[i:])
		units += runeUnits(c)
		i += n
	}
	if units == pos.Character {
		return end, true
	}
	return 0, false
}

// Range converts a byte span to a position range.
func (d *Document) Range(start, end int) Range {
	return Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}

// Slice returns the text between two offsets, clamped to the document.
func (d *Document) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(d.Text) {
		end = len(d.Text)
	}
	if start >= end {
		return ""
	}
	return d.Text[start:end]
}

func utf16Len(s string) int {
	n := 0
	for _, c := range s {
		n += runeUnits(c)
	}
	return n
}

// runeUnits returns the number of UTF-16 code units needed for c.
func runeUnits(c rune) int {
	if utf16.IsSurrogate(c) || c < 0x10000 {
		return 1
	}
	return 2
}

// PathFromURI converts a file:// URI to a filesystem path.
func PathFromURI(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// URIFromPath converts a filesystem path to a file:// URI.
func URIFromPath(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
