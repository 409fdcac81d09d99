// Copyright © 2026 The futurec authors

// Package rdparser parses FutureC script blocks.
//
// The parser walks the tokens of one block, tracks delimiter nesting and
// parser function calls (NS.Func(...)), and then runs the registered
// checks over the result. Malformed input never fails a parse: every
// finding becomes a diagnostic anchored to the block's own document.
package rdparser

import (
	"fmt"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/parser/token"
)

// Structural diagnostic codes reported while walking tokens.
const (
	CodeUnterminatedString  = "unterminated-string"
	CodeUnterminatedComment = "unterminated-comment"
	CodeUnclosedDelimiter   = "unclosed-delimiter"
	CodeMismatchedDelimiter = "mismatched-delimiter"
	CodeUnexpectedDelimiter = "unexpected-delimiter"
	CodeInvalidCharacter    = "invalid-character"
)

// ParseResult is the outcome of parsing one script block.
type ParseResult struct {
	Script      *analysis.Script        `json:"-"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
	Calls       []Call                  `json:"calls"`
	Includes    []analysis.Include      `json:"includes"`
	Hooks       []analysis.Hook         `json:"hooks"`
	Stats       Stats                   `json:"stats"`
}

// Call is a parser function call NS.Func(...) in a script body.
type Call struct {
	Namespace string         `json:"namespace"`
	Name      string         `json:"name"`
	NameRange document.Range `json:"range"`
	// Open and Close are the offsets of the parentheses. Close is -1
	// when the call is never closed.
	Open  int `json:"-"`
	Close int `json:"-"`
	// Args is the number of arguments, Commas the offsets of the
	// top-level commas separating them.
	Args   int   `json:"args"`
	Commas []int `json:"-"`
}

// Closed reports whether the call's argument list is terminated.
func (c *Call) Closed() bool {
	return c.Close >= 0
}

// Contains reports whether offset lies inside the argument list.
func (c *Call) Contains(offset int) bool {
	return offset > c.Open && (c.Close < 0 || offset <= c.Close)
}

// ActiveArg returns the index of the argument at offset.
func (c *Call) ActiveArg(offset int) int {
	n := 0
	for _, comma := range c.Commas {
		if comma < offset {
			n++
		}
	}
	return n
}

// Stats are simple counts over a parsed block.
type Stats struct {
	Lines    int `json:"lines"`
	Tokens   int `json:"tokens"`
	Comments int `json:"comments"`
	Calls    int `json:"calls"`
	Includes int `json:"includes"`
	Hooks    int `json:"hooks"`
}

// Parse parses script s. Checks marked strict, which need the whole
// workspace, only run when strict is set. Parse returns an error only
// when the script's document, or in strict mode the workspace index,
// cannot be read.
func Parse(ws *analysis.Workspace, s *analysis.Script, strict bool) (*ParseResult, error) {
	doc, err := ws.Document(s.URI)
	if err != nil {
		return nil, err
	}
	p := newParser(doc, s)
	p.parse()

	res := p.result
	pass := &Pass{
		Workspace: ws,
		Document:  doc,
		Script:    s,
		Result:    res,
	}
	for _, c := range Checks() {
		if c.Strict && !strict {
			continue
		}
		pass.Check = c
		if err := c.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: check %s: %w", s, c.Name, err)
		}
	}
	res.Diagnostics = append(res.Diagnostics, pass.diagnostics...)
	diagnostic.Sort(res.Diagnostics)
	return res, nil
}

// opener is an unclosed delimiter on the parser stack.
type opener struct {
	tok     *token.Token
	line    int
	call    int // index into result.Calls, or -1
	content bool
}

type parser struct {
	doc    *document.Document
	script *analysis.Script
	src    *TokenSource
	result *ParseResult

	stack []opener
	// prev holds the last three tokens, most recent last.
	prev [3]*token.Token
}

func newParser(doc *document.Document, s *analysis.Script) *parser {
	scanner := token.NewSpanScanner(doc.URI, doc.Text, s.BodyStart, s.BodyEnd)
	return &parser{
		doc:    doc,
		script: s,
		src:    NewTokenSource(scanner),
		result: &ParseResult{
			Script:   s,
			Includes: s.Includes,
			Hooks:    s.Hooks,
		},
	}
}

func (p *parser) parse() {
	for p.src.Scan() {
		tok := p.src.Token
		if len(p.stack) > 0 && !tok.Type.IsClose() {
			p.stack[len(p.stack)-1].content = true
		}
		switch {
		case tok.Type == token.ERROR:
			p.lexError(tok)
		case tok.Type == token.INVALID:
			p.report(tok.Source.Pos, tok.Source.End, diagnostic.SeverityWarning, CodeInvalidCharacter, tok.Text)
		case tok.Type.IsOpen():
			p.open(tok)
		case tok.Type.IsClose():
			p.close(tok)
		case tok.Type == token.COMMA:
			p.comma(tok)
		}
		p.prev[0], p.prev[1], p.prev[2] = p.prev[1], p.prev[2], tok
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.unclosed(p.stack[i], p.script.End)
	}
	p.stack = nil

	first, last := p.doc.LineAt(p.script.Start), p.doc.LineAt(p.script.End)
	p.result.Stats = Stats{
		Lines:    last - first + 1,
		Tokens:   p.src.Count,
		Comments: p.src.Comments,
		Calls:    len(p.result.Calls),
		Includes: len(p.script.Includes),
		Hooks:    len(p.script.Hooks),
	}
}

func (p *parser) lexError(tok *token.Token) {
	if tok.Text == "unterminated block comment" {
		p.report(tok.Source.Pos, tok.Source.End, diagnostic.SeverityError, CodeUnterminatedComment, tok.Text)
		return
	}
	p.report(tok.Source.Pos, tok.Source.End, diagnostic.SeverityError, CodeUnterminatedString, tok.Text)
	// Parens and brackets opened earlier on the same line most likely
	// belong to the broken literal and are dropped silently. Braces open
	// blocks that continue on later lines.
	line := p.doc.LineAt(tok.Source.Pos)
	for len(p.stack) > 0 {
		o := p.stack[len(p.stack)-1]
		if o.line != line || o.tok.Type == token.BRACE_L {
			break
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) open(tok *token.Token) {
	o := opener{tok: tok, line: p.doc.LineAt(tok.Source.Pos), call: -1}
	if tok.Type == token.PAREN_L {
		o.call = p.callStart(tok)
	}
	p.stack = append(p.stack, o)
}

// callStart records a call when tok follows NS . Name.
func (p *parser) callStart(tok *token.Token) int {
	ns, dot, name := p.prev[0], p.prev[1], p.prev[2]
	if ns == nil || ns.Type != token.IDENT || dot.Type != token.DOT || name.Type != token.IDENT {
		return -1
	}
	if ns.Source.End != dot.Source.Pos || dot.Source.End != name.Source.Pos {
		return -1
	}
	p.result.Calls = append(p.result.Calls, Call{
		Namespace: ns.Text,
		Name:      name.Text,
		NameRange: p.doc.Range(name.Source.Pos, name.Source.End),
		Open:      tok.Source.Pos,
		Close:     -1,
	})
	return len(p.result.Calls) - 1
}

func (p *parser) close(tok *token.Token) {
	if len(p.stack) == 0 {
		p.report(tok.Source.Pos, tok.Source.End, diagnostic.SeverityError, CodeUnexpectedDelimiter,
			fmt.Sprintf("unexpected %q: no matching opening delimiter", tok.Type))
		return
	}
	top := len(p.stack) - 1
	if p.stack[top].tok.Type.Closer() == tok.Type {
		p.pop(tok)
		return
	}
	for i := top - 1; i >= 0; i-- {
		if p.stack[i].tok.Type.Closer() != tok.Type {
			continue
		}
		for j := top; j > i; j-- {
			p.unclosed(p.stack[j], tok.Source.Pos)
		}
		p.stack = p.stack[:i+1]
		p.pop(tok)
		return
	}
	want := p.stack[top].tok.Type.Closer()
	p.report(tok.Source.Pos, tok.Source.End, diagnostic.SeverityError, CodeMismatchedDelimiter,
		fmt.Sprintf("mismatched %q: expected %q", tok.Type, want))
}

func (p *parser) pop(closer *token.Token) {
	o := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if o.call < 0 {
		return
	}
	call := &p.result.Calls[o.call]
	call.Close = closer.Source.Pos
	if o.content {
		call.Args = len(call.Commas) + 1
	}
}

func (p *parser) comma(tok *token.Token) {
	if len(p.stack) == 0 {
		return
	}
	if o := p.stack[len(p.stack)-1]; o.call >= 0 {
		call := &p.result.Calls[o.call]
		call.Commas = append(call.Commas, tok.Source.Pos)
	}
}

func (p *parser) unclosed(o opener, end int) {
	p.report(o.tok.Source.Pos, end, diagnostic.SeverityError, CodeUnclosedDelimiter,
		fmt.Sprintf("unclosed %q", o.tok.Type))
}

func (p *parser) report(start, end int, sev diagnostic.Severity, code, msg string) {
	p.result.Diagnostics = append(p.result.Diagnostics, diagnostic.Diagnostic{
		URI:      p.doc.URI,
		Range:    p.doc.Range(start, end),
		Severity: sev,
		Message:  msg,
		Code:     code,
	})
}
