// Copyright © 2026 The futurec authors

package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/parser/lexer"
	"github.com/futurec/futurec/parser/token"
)

// Header and terminator keywords of script blocks.
const (
	ScriptHeader    = "SCRIPT:"
	InsertionHeader = "INSERTINTOSCRIPT:"
	EndScript       = "ENDSCRIPT"
	IncludeKeyword  = "includescript"
	hookPrefix      = "//ADDHOOK"
)

// Kind distinguishes script definitions from hook insertion blocks.
type Kind int

const (
	// KindScript is a SCRIPT:<id>,<name>,... block.
	KindScript Kind = iota
	// KindInsertion is an INSERTINTOSCRIPT:<id>,<hook> block that adds code
	// to a hook declared by script <id>.
	KindInsertion
)

func (k Kind) String() string {
	if k == KindInsertion {
		return "insertion"
	}
	return "script"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Script is one block embedded in a host document.
type Script struct {
	Kind Kind
	// ID is the numeric script id, or -1 when IDText is not a number.
	ID     int
	IDText string
	// Name is the script name for KindScript blocks and the target hook
	// name for KindInsertion blocks.
	Name string
	// Fields holds the remaining comma separated header fields.
	Fields []string
	URI    string

	// Byte offsets into the document text. The header occupies
	// [Start, HeaderEnd) and the body [BodyStart, BodyEnd). End is the end
	// of the ENDSCRIPT line for terminated blocks, BodyEnd otherwise.
	Start     int
	HeaderEnd int
	BodyStart int
	BodyEnd   int
	End       int

	Range       document.Range
	HeaderRange document.Range
	Terminated  bool

	Includes []Include
	Hooks    []Hook
}

func (s *Script) String() string {
	if s.Kind == KindInsertion {
		return fmt.Sprintf("%s%s,%s", InsertionHeader, s.IDText, s.Name)
	}
	return fmt.Sprintf("%s%s,%s", ScriptHeader, s.IDText, s.Name)
}

// Contains reports whether offset falls within the block, including the
// end of its last line.
func (s *Script) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

// key identifies a block for reachability. Script definitions are keyed
// by id. Insertion blocks and blocks without a valid id are keyed by
// their location.
func (s *Script) key() string {
	if s.Kind == KindScript && s.ID >= 0 {
		return "script:" + strconv.Itoa(s.ID)
	}
	return fmt.Sprintf("%s:%s@%d", s.Kind, s.URI, s.Start)
}

// Include is one includescript occurrence in a script body.
type Include struct {
	// ID is the included script id. Valid is false when the keyword is
	// not followed by a number.
	ID    int
	Valid bool
	// Arg is the text following the keyword, empty at the end of the body.
	Arg string
	// Range covers the id argument when Valid and the keyword otherwise.
	Range        document.Range
	KeywordRange document.Range
	Offset       int // offset of the keyword
}

// Hook is an //ADDHOOK-<n>-<name> marker declared in a script body.
type Hook struct {
	Name      string
	Number    int
	Malformed bool
	Text      string
	Range     document.Range
}

var hookPattern = regexp.MustCompile(`^//ADDHOOK-([0-9]+)-([a-zA-Z` + lexer.Umlauts + `_0-9]+)$`)

// ScanScripts finds every script block of doc in textual order.
//
// A block starts at a line whose first non-blank text is SCRIPT: or
// INSERTINTOSCRIPT: and ends with the first following ENDSCRIPT line. A
// block interrupted by another header, or by the end of the text, is
// returned with Terminated unset.
func ScanScripts(doc *document.Document) []*Script {
	var scripts []*Script
	var cur *Script
	finish := func(end int, terminated bool, lastLine int) {
		cur.Terminated = terminated
		if terminated {
			cur.BodyEnd = doc.LineStart(lastLine)
			cur.End = doc.LineEnd(lastLine)
		} else {
			cur.BodyEnd = end
			cur.End = end
		}
		cur.Range = doc.Range(cur.Start, cur.End)
		scanBody(doc, cur)
		scripts = append(scripts, cur)
		cur = nil
	}
	for line := 0; line < doc.LineCount(); line++ {
		text := strings.TrimLeft(doc.Line(line), " \t")
		kind, header, ok := parseHeaderLine(text)
		if ok {
			if cur != nil {
				finish(doc.LineStart(line), false, 0)
			}
			cur = newScript(doc, line, kind, header)
			continue
		}
		if cur != nil && isEndScript(text) {
			finish(0, true, line)
		}
	}
	if cur != nil {
		finish(len(doc.Text), false, 0)
	}
	return scripts
}

func parseHeaderLine(text string) (Kind, string, bool) {
	if rest, ok := strings.CutPrefix(text, InsertionHeader); ok {
		return KindInsertion, rest, true
	}
	if rest, ok := strings.CutPrefix(text, ScriptHeader); ok {
		return KindScript, rest, true
	}
	return 0, "", false
}

func isEndScript(text string) bool {
	rest, ok := strings.CutPrefix(text, EndScript)
	if !ok {
		return false
	}
	return rest == "" || !lexer.IsWord([]rune(rest)[0])
}

func newScript(doc *document.Document, line int, kind Kind, header string) *Script {
	s := &Script{
		Kind:      kind,
		ID:        -1,
		URI:       doc.URI,
		Start:     doc.LineStart(line),
		HeaderEnd: doc.LineEnd(line),
		BodyStart: doc.LineStart(line + 1),
	}
	if line+1 >= doc.LineCount() {
		s.BodyStart = s.HeaderEnd
	}
	s.HeaderRange = doc.Range(s.Start, s.HeaderEnd)

	fields := strings.Split(header, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	s.IDText = fields[0]
	if id, err := strconv.Atoi(s.IDText); err == nil && id >= 0 && isDigits(s.IDText) {
		s.ID = id
	}
	if len(fields) > 1 {
		s.Name = fields[1]
	}
	if len(fields) > 2 {
		s.Fields = fields[2:]
	}
	return s
}

// scanBody collects includes and hook markers. Occurrences inside strings
// and ordinary comments are ignored.
func scanBody(doc *document.Document, s *Script) {
	if s.BodyStart >= s.BodyEnd {
		return
	}
	toks := lexer.Tokens(doc.URI, doc.Text, s.BodyStart, s.BodyEnd)
	for i, tok := range toks {
		switch {
		case tok.Type == token.IDENT && tok.Text == IncludeKeyword:
			s.Includes = append(s.Includes, newInclude(doc, tok, nextCode(toks, i+1)))
		case tok.Type == token.COMMENT && strings.HasPrefix(tok.Text, hookPrefix):
			s.Hooks = append(s.Hooks, newHook(doc, tok))
		}
	}
}

// nextCode returns the first non-comment token at or after index i.
func nextCode(toks []*token.Token, i int) *token.Token {
	for ; i < len(toks); i++ {
		if toks[i].Type != token.COMMENT {
			return toks[i]
		}
	}
	return toks[len(toks)-1]
}

func newInclude(doc *document.Document, kw, arg *token.Token) Include {
	inc := Include{
		Offset:       kw.Source.Pos,
		KeywordRange: doc.Range(kw.Source.Pos, kw.Source.End),
	}
	inc.Range = inc.KeywordRange
	if arg.Type == token.EOF {
		return inc
	}
	inc.Arg = arg.Text
	if arg.Type == token.NUMBER && isDigits(arg.Text) {
		if id, err := strconv.Atoi(arg.Text); err == nil {
			inc.ID = id
			inc.Valid = true
			inc.Range = doc.Range(arg.Source.Pos, arg.Source.End)
		}
	}
	return inc
}

func newHook(doc *document.Document, tok *token.Token) Hook {
	text := strings.TrimRight(tok.Text, " \t\r")
	h := Hook{
		Text:  text,
		Range: doc.Range(tok.Source.Pos, tok.Source.Pos+len(text)),
	}
	m := hookPattern.FindStringSubmatch(text)
	if m == nil {
		h.Malformed = true
		return h
	}
	h.Number, _ = strconv.Atoi(m[1])
	h.Name = m[2]
	return h
}

// ScriptAt returns the block of scripts containing offset, or nil.
func ScriptAt(scripts []*Script, offset int) *Script {
	for _, s := range scripts {
		if s.Contains(offset) {
			return s
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
