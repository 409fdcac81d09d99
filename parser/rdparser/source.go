// Copyright © 2026 The futurec authors

package rdparser

import (
	"github.com/futurec/futurec/parser/lexer"
	"github.com/futurec/futurec/parser/token"
)

// TokenStream is an arbitrary sequence of tokens. Typically, a TokenStream
// will be a *lexer.Lexer.
type TokenStream interface {
	// ReadToken returns the next token from an input source. When no more
	// tokens can be generated ReadToken returns a token with type
	// token.EOF on every call.
	ReadToken() *token.Token
}

// TokenSource abstracts a TokenStream by adding one token of lookahead.
// Comments are dropped from the stream but still counted.
type TokenSource struct {
	lex      TokenStream
	Token    *token.Token
	peek     *token.Token
	Comments int
	Count    int
}

// NewTokenSource initializes and returns a new TokenSource that scans
// tokens from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return &TokenSource{lex: lexer.New(scanner)}
}

func (s *TokenSource) Peek() *token.Token {
	if s.peek != nil {
		return s.peek
	}
	for {
		tok := s.lex.ReadToken()
		if tok.Type != token.EOF {
			s.Count++
		}
		if tok.Type != token.COMMENT {
			s.peek = tok
			return tok
		}
		s.Comments++
	}
}

// Scan advances to the next token. Scan returns false once the stream is
// at EOF, leaving the EOF token in s.Token.
func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.Token = s.Peek()
	s.peek = nil
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}
