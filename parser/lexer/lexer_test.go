// Copyright © 2026 The futurec authors

package lexer

import (
	"testing"

	"github.com/futurec/futurec/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tok struct {
	typ  token.Type
	text string
}

func lexAll(input string) []tok {
	var out []tok
	for _, t := range Tokens("test", input, 0, len(input)) {
		out = append(out, tok{t.Type, t.Text})
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []tok
	}{
		{``, []tok{{token.EOF, ""}}},
		{`S.DoSomething(42, "x");`, []tok{
			{token.IDENT, "S"},
			{token.DOT, "."},
			{token.IDENT, "DoSomething"},
			{token.PAREN_L, "("},
			{token.NUMBER, "42"},
			{token.COMMA, ","},
			{token.STRING, `"x"`},
			{token.PAREN_R, ")"},
			{token.SEMICOLON, ";"},
			{token.EOF, ""},
		}},
		{"includescript 107\n", []tok{
			{token.IDENT, "includescript"},
			{token.NUMBER, "107"},
			{token.EOF, ""},
		}},
		{`Größe_1 = 3.25 + x.5`, []tok{
			{token.IDENT, "Größe_1"},
			{token.OPERATOR, "="},
			{token.NUMBER, "3.25"},
			{token.OPERATOR, "+"},
			{token.IDENT, "x"},
			{token.DOT, "."},
			{token.NUMBER, "5"},
			{token.EOF, ""},
		}},
		{"a[1]{b:c}", []tok{
			{token.IDENT, "a"},
			{token.BRACKET_L, "["},
			{token.NUMBER, "1"},
			{token.BRACKET_R, "]"},
			{token.BRACE_L, "{"},
			{token.IDENT, "b"},
			{token.COLON, ":"},
			{token.IDENT, "c"},
			{token.BRACE_R, "}"},
			{token.EOF, ""},
		}},
		{"x // note (\n/* multi\nline */ y / z", []tok{
			{token.IDENT, "x"},
			{token.COMMENT, "// note ("},
			{token.COMMENT, "/* multi\nline */"},
			{token.IDENT, "y"},
			{token.OPERATOR, "/"},
			{token.IDENT, "z"},
			{token.EOF, ""},
		}},
		{`'a' "esc \" quote"`, []tok{
			{token.CHAR, "'a'"},
			{token.STRING, `"esc \" quote"`},
			{token.EOF, ""},
		}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tokens, lexAll(tt.input), "input %q", tt.input)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	input := "S.Foo(\"abc);\nnext"
	toks := Tokens("test", input, 0, len(input))
	require.Len(t, toks, 7)
	errTok := toks[4]
	assert.Equal(t, token.ERROR, errTok.Type)
	assert.Equal(t, "unterminated string literal", errTok.Text)
	// The error spans the quote to the end of the line.
	assert.Equal(t, 6, errTok.Source.Pos)
	assert.Equal(t, 12, errTok.Source.End)
	assert.Equal(t, "next", toks[5].Text)
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	toks := lexAll("a /* open")
	require.Len(t, toks, 3)
	assert.Equal(t, tok{token.ERROR, "unterminated block comment"}, toks[1])
}

func TestLexerInvalidCharacter(t *testing.T) {
	toks := lexAll("a € b")
	require.Len(t, toks, 4)
	assert.Equal(t, token.INVALID, toks[1].typ)
	assert.Contains(t, toks[1].text, "€")
}

func TestLexerSpanOffsets(t *testing.T) {
	text := "host text\nSCRIPT:1,Foo\nx(1)\nENDSCRIPT\n"
	start := len("host text\n")
	toks := Tokens("file:///a.cpp", text, start+len("SCRIPT:1,Foo\n"), start+len("SCRIPT:1,Foo\nx(1)"))
	require.Len(t, toks, 5)
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, 23, toks[0].Source.Pos)
	assert.Equal(t, "file:///a.cpp", toks[0].Source.File)
}

func TestIsWord(t *testing.T) {
	for _, c := range "aZ_öÄß" {
		assert.True(t, IsWordStart(c), "%q", c)
	}
	assert.False(t, IsWordStart('1'))
	assert.True(t, IsWord('1'))
	assert.False(t, IsWord('.'))
	assert.False(t, IsWord('é'))
}
