// Copyright © 2026 The futurec authors

package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/parser/lexer"
)

// CursorKind classifies the token under the cursor.
type CursorKind int

const (
	CursorUndefined CursorKind = iota
	CursorUserFunction
	CursorParserFunction
	CursorIncludeScript
	CursorVariable
	CursorError
)

func (k CursorKind) String() string {
	switch k {
	case CursorUserFunction:
		return "userFunction"
	case CursorParserFunction:
		return "parserFunction"
	case CursorIncludeScript:
		return "includeScript"
	case CursorVariable:
		return "variable"
	case CursorError:
		return "error"
	default:
		return "undefined"
	}
}

// MarshalText encodes the kind by name.
func (k CursorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CursorInfo describes the token under a cursor.
type CursorInfo struct {
	// Text is the token literal. For CursorIncludeScript it is the script
	// id digits.
	Text string
	// First is the first character of Text, 0 when Text is empty.
	First rune
	// AtCursor is the character directly under the cursor, 0 at the end of
	// the text.
	AtCursor rune
	Kind     CursorKind
	// Namespace is the identifier before the dot of a parser function call.
	Namespace string
	// Start and End are the byte offsets of Text.
	Start, End int
}

// isCursorDelimiter reports whether c ends the backward token scan.
func isCursorDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', '[', '!', ',', '"', '-', '#', '$', '{', ';', '}':
		return true
	}
	return false
}

// Classify returns the token under pos in doc. Positions outside the
// document classify as CursorError.
func Classify(doc *document.Document, pos document.Position) CursorInfo {
	offset, ok := doc.OffsetAt(pos)
	if !ok {
		return CursorInfo{Kind: CursorError}
	}
	return ClassifyOffset(doc.Text, offset)
}

// ClassifyOffset returns the token under the byte offset of text.
//
// The token is found by scanning backward from the cursor to a delimiter.
// Crossing ':' marks a user-defined function call. Reaching '.' marks a
// parser function call and ends the scan; a ':' crossed before it still
// makes the token a user-defined function. The token then extends forward
// to the first non-identifier character, looking past the first character
// (or the first six for user-defined functions so that the ':' separator
// is included).
func ClassifyOffset(text string, offset int) CursorInfo {
	if offset < 0 || offset > len(text) {
		return CursorInfo{Kind: CursorError}
	}
	info := CursorInfo{}
	if offset < len(text) {
		info.AtCursor, _ = utf8.DecodeRuneInString(text[offset:])
	}

	var userFn, parserFn bool
	i := offset
	start := -1
	for {
		if i < len(text) {
			c := text[i]
			if isCursorDelimiter(c) {
				start = i + 1
				break
			}
			if c == ':' {
				userFn = true
			} else if c == '.' {
				parserFn = true
				start = i + 1
				break
			}
		}
		if i == 0 {
			start = 0
			break
		}
		i--
	}
	if parserFn && !userFn {
		info.Namespace = wordBefore(text, start-1)
	}

	end := tokenEnd(text, start, userFn)
	info.Start, info.End = start, end
	info.Text = text[start:end]

	switch {
	case userFn:
		info.Kind = CursorUserFunction
	case parserFn:
		info.Kind = CursorParserFunction
	case info.Text == IncludeKeyword:
		digitStart, digitEnd, ok := nextDigits(text, offset)
		if !ok {
			info.Kind = CursorError
			break
		}
		info.Kind = CursorIncludeScript
		info.Start, info.End = digitStart, digitEnd
		info.Text = text[digitStart:digitEnd]
	case isDigits(info.Text) && followsInclude(text, start):
		info.Kind = CursorIncludeScript
	default:
		info.Kind = CursorVariable
	}
	if info.Text != "" {
		info.First, _ = utf8.DecodeRuneInString(info.Text)
	}
	return info
}

// tokenEnd finds the end of the token starting at start: the first
// non-identifier rune at least one rune (six for user functions) past
// start, or the end of text.
func tokenEnd(text string, start int, userFn bool) int {
	skip := 1
	if userFn {
		skip += 5
	}
	i := start
	for ; skip > 0 && i < len(text); skip-- {
		_, n := utf8.DecodeRuneInString(text[i:])
		i += n
	}
	for i < len(text) {
		c, n := utf8.DecodeRuneInString(text[i:])
		if !lexer.IsWord(c) {
			return i
		}
		i += n
	}
	return len(text)
}

// nextDigits returns the first run of ASCII digits at or after offset.
func nextDigits(text string, offset int) (int, int, bool) {
	i := strings.IndexAny(text[offset:], "0123456789")
	if i < 0 {
		return 0, 0, false
	}
	start := offset + i
	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	return start, end, true
}

// followsInclude reports whether the includescript keyword, followed only
// by blanks, ends right before offset.
func followsInclude(text string, offset int) bool {
	i := offset
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i == offset || !strings.HasSuffix(text[:i], IncludeKeyword) {
		return false
	}
	before := i - len(IncludeKeyword)
	if before == 0 {
		return true
	}
	c, _ := utf8.DecodeLastRuneInString(text[:before])
	return !lexer.IsWord(c)
}

// wordBefore returns the identifier ending right before offset.
func wordBefore(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	i := offset
	for i > 0 {
		c, n := utf8.DecodeLastRuneInString(text[:i])
		if !lexer.IsWord(c) {
			break
		}
		i -= n
	}
	return text[i:offset]
}
