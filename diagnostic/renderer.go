// Copyright © 2026 The futurec authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/futurec/futurec/document"
)

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents by path. If nil, os.ReadFile
	// is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	if d.URI != "" {
		r.writeSpan(ew, d, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sevColor := p.boldCyan
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.yellow
	}
	code := ""
	if d.Code != "" {
		code = "[" + d.Code + "]"
	}
	ew.printf("%s%s%s%s%s:%s %s%s%s\n",
		sevColor, p.bold, d.Severity, code, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, d Diagnostic, p palette) {
	path := document.PathFromURI(d.URI)
	line := d.Range.Start.Line + 1
	ew.printf("  %s-->%s %s:%d:%d\n", p.boldBlue, p.reset, path, line, d.Range.Start.Character+1)

	source, ok := r.readSourceLine(path, d.Range.Start.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	// Multi-line ranges are underlined to the end of the first line.
	startCol := byteColumn(source, d.Range.Start.Character)
	endCol := len(source)
	if d.Range.End.Line == d.Range.Start.Line {
		endCol = byteColumn(source, d.Range.End.Character)
	}
	underLen := utf8.RuneCountInString(source[startCol:max(startCol, endCol)])
	if underLen == 0 {
		underLen = 1
	}
	underPad := strings.Repeat(" ", displayWidth(source[:startCol]))
	underline := strings.Repeat("^", underLen)
	ew.printf(" %s%s |%s  %s%s%s%s\n", p.boldBlue, pad, p.reset, underPad, p.boldRed, underline, p.reset)
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(path string, line int) (string, bool) {
	if line < 0 || path == "" {
		return "", false
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(path)
	if err != nil {
		return "", false
	}
	doc := document.New(path, string(data))
	if line >= doc.LineCount() {
		return "", false
	}
	return doc.Line(line), true
}

// byteColumn converts a UTF-16 character offset within line to a byte
// offset, clamped to the line length.
func byteColumn(line string, character int) int {
	units := 0
	for i, c := range line {
		if units >= character {
			return i
		}
		units++
		if c >= 0x10000 {
			units++
		}
	}
	return len(line)
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
