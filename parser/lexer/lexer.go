// Copyright © 2026 The futurec authors

package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/futurec/futurec/parser/token"
)

// Umlauts are the non-ASCII letters allowed in identifiers.
const Umlauts = "öÖäÄüÜß"

// operatorRunes are printable ASCII characters lexed as single-character
// operators.
const operatorRunes = "!#$%&*+-/<=>?@\\^`|~"

type Lexer struct {
	scanner *token.Scanner
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// Tokens lexes text[start:end] and returns every token up to and
// including EOF. Comments are kept.
func Tokens(file, text string, start, end int) []*token.Token {
	lex := New(token.NewSpanScanner(file, text, start, end))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

// ReadToken returns the next token. At the end of input ReadToken returns
// a token with type token.EOF on every call. Lexical errors produce
// token.ERROR tokens whose Text is the error message and whose Source
// spans the offending text.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	if lex.scanner.ScanRune() != nil {
		return lex.emit(token.EOF, "")
	}
	c := lex.scanner.Rune()
	switch c {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '[':
		return lex.scanner.EmitToken(token.BRACKET_L)
	case ']':
		return lex.scanner.EmitToken(token.BRACKET_R)
	case '{':
		return lex.scanner.EmitToken(token.BRACE_L)
	case '}':
		return lex.scanner.EmitToken(token.BRACE_R)
	case ';':
		return lex.scanner.EmitToken(token.SEMICOLON)
	case ',':
		return lex.scanner.EmitToken(token.COMMA)
	case '.':
		return lex.scanner.EmitToken(token.DOT)
	case ':':
		return lex.scanner.EmitToken(token.COLON)
	case '/':
		if lex.scanner.AcceptRune('/') {
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			return lex.scanner.EmitToken(token.COMMENT)
		}
		if lex.scanner.AcceptRune('*') {
			return lex.readBlockComment()
		}
		return lex.scanner.EmitToken(token.OPERATOR)
	case '"':
		return lex.readQuoted('"', token.STRING)
	case '\'':
		return lex.readQuoted('\'', token.CHAR)
	}
	switch {
	case isDigit(c):
		return lex.readNumber()
	case IsWordStart(c):
		lex.scanner.AcceptSeq(IsWord)
		return lex.scanner.EmitToken(token.IDENT)
	case strings.ContainsRune(operatorRunes, c):
		return lex.scanner.EmitToken(token.OPERATOR)
	}
	return lex.errorf(token.INVALID, "unexpected character %q", c)
}

func (lex *Lexer) readBlockComment() *token.Token {
	for {
		if lex.scanner.AcceptString("*/") {
			return lex.scanner.EmitToken(token.COMMENT)
		}
		if lex.scanner.ScanRune() != nil {
			return lex.errorf(token.ERROR, "unterminated block comment")
		}
	}
}

// readQuoted scans a string or character literal. A literal left open at
// the end of its line is an error spanning the rest of the line.
func (lex *Lexer) readQuoted(quote rune, typ token.Type) *token.Token {
	for {
		c, ok := lex.scanner.Peek()
		if !ok || c == '\n' {
			if typ == token.CHAR {
				return lex.errorf(token.ERROR, "unterminated character literal")
			}
			return lex.errorf(token.ERROR, "unterminated string literal")
		}
		_ = lex.scanner.ScanRune()
		switch c {
		case quote:
			return lex.scanner.EmitToken(typ)
		case '\\':
			lex.scanner.Accept(func(c rune) bool { return c != '\n' })
		}
	}
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit()
	if c, ok := lex.scanner.PeekAt(1); ok && isDigit(c) && lex.scanner.AcceptRune('.') {
		lex.scanner.AcceptSeqDigit()
	}
	return lex.scanner.EmitToken(token.NUMBER)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeq(unicode.IsSpace) > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) errorf(typ token.Type, format string, v ...interface{}) *token.Token {
	return lex.emit(typ, fmt.Sprintf(format, v...))
}

// IsWordStart reports whether c may begin an identifier.
func IsWordStart(c rune) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || strings.ContainsRune(Umlauts, c)
}

// IsWord reports whether c may continue an identifier.
func IsWord(c rune) bool {
	return IsWordStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
