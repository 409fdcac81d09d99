// Copyright © 2026 The futurec authors

package token

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a span of document
// text. Token locations are byte offsets into the whole text, so tokens of
// a script embedded in a larger host file map directly back to it.
type Scanner struct {
	file  string
	src   string
	limit int // end of the scanned span

	start int // start of the current token
	pos   int // offset of c
	next  int // offset of the rune following c
	c     Rune
}

// NewScanner returns a Scanner over all of text.
func NewScanner(file, text string) *Scanner {
	return NewSpanScanner(file, text, 0, len(text))
}

// NewSpanScanner returns a Scanner over text[start:end].
func NewSpanScanner(file, text string, start, end int) *Scanner {
	if end > len(text) {
		end = len(text)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return &Scanner{
		file:  file,
		src:   text,
		limit: end,
		start: start,
		pos:   start,
		next:  start,
	}
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.next]
}

// Rune returns the current unicode rune that is being scanned. The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned. At the end of the span Peek
// returns a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= s.limit {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.next:s.limit])
	return c, true
}

// PeekAt returns the rune n runes past the next one without consuming
// anything.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	i := s.next
	for ; n > 0 && i < s.limit; n-- {
		_, size := utf8.DecodeRuneInString(s.src[i:s.limit])
		i += size
	}
	if i >= s.limit {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[i:s.limit])
	return c, true
}

// ScanRune scans the next rune into the current token. It returns io.EOF
// at the end of the span. Invalid utf-8 bytes are scanned as
// utf8.RuneError.
func (s *Scanner) ScanRune() error {
	if s.next >= s.limit {
		return io.EOF
	}
	c, n := utf8.DecodeRuneInString(s.src[s.next:s.limit])
	s.c = Rune{c, n}
	s.pos = s.next
	s.next += n
	return nil
}

// EOF reports whether the whole span has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= s.limit
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(c rune) bool { return '0' <= c && c <= '9' })
}

// AcceptSpace accepts one whitespace rune other than a newline.
func (s *Scanner) AcceptSpace() bool {
	return s.Accept(func(c rune) bool { return c != '\n' && unicode.IsSpace(c) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

// AcceptString accepts literal as a whole. Nothing is consumed when the
// upcoming text does not start with literal.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(s.src[s.next:s.limit], literal) {
		return false
	}
	for range literal {
		_ = s.ScanRune()
	}
	return true
}

// LocStart returns a Location spanning the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{File: s.file, Pos: s.start, End: s.next}
}

// Rune contains a rune read by Scanner along with its encoded size.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if Rune represents an invalid utf-8 sequence read
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
