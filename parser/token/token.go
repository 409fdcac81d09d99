// Copyright © 2026 The futurec authors

package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token. Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream. At the end of the stream
	// Peek returns an EOF token.
	Peek() *Token
	// Scan advances the token stream if possible. If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used by the script lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	IDENT
	NUMBER
	STRING
	CHAR
	COMMENT
	OPERATOR

	// Punctuation
	SEMICOLON
	COMMA
	DOT
	COLON

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		ERROR:     "error",
		EOF:       "EOF",
		IDENT:     "identifier",
		NUMBER:    "number",
		STRING:    "string",
		CHAR:      "char",
		COMMENT:   "comment",
		OPERATOR:  "operator",
		SEMICOLON: ";",
		COMMA:     ",",
		DOT:       ".",
		COLON:     ":",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACKET_L: "[",
		BRACKET_R: "]",
		BRACE_L:   "{",
		BRACE_R:   "}",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsOpen reports whether typ opens a delimited group.
func (typ Type) IsOpen() bool {
	return typ == PAREN_L || typ == BRACKET_L || typ == BRACE_L
}

// IsClose reports whether typ closes a delimited group.
func (typ Type) IsClose() bool {
	return typ == PAREN_R || typ == BRACKET_R || typ == BRACE_R
}

// Closer returns the delimiter type closing typ, or INVALID.
func (typ Type) Closer() Type {
	switch typ {
	case PAREN_L:
		return PAREN_R
	case BRACKET_L:
		return BRACKET_R
	case BRACE_L:
		return BRACE_R
	}
	return INVALID
}

// Location is a byte span of a named source text.
type Location struct {
	File string // the document URI
	Pos  int    // offset of the first byte
	End  int    // offset just past the last byte
}

func (loc *Location) String() string {
	if loc.Pos < 0 {
		return loc.File
	}
	return fmt.Sprintf("%s[%d:%d]", loc.File, loc.Pos, loc.End)
}
