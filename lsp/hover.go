// Copyright © 2026 The futurec authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/help"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	info := analysis.Classify(doc, fromLSPPosition(params.Position))

	var content string
	switch info.Kind {
	case analysis.CursorParserFunction:
		if fn, ok := s.getCatalog().Lookup(info.Namespace, info.Text); ok {
			content = help.Markdown(info.Namespace, fn)
		}
	case analysis.CursorVariable:
		if ns := s.getCatalog().Namespace(info.Text); ns != nil && followedByDot(doc.Text, info.End) {
			content = help.NamespaceMarkdown(ns)
		}
	case analysis.CursorIncludeScript:
		content = s.includeHover(info.Text)
	}
	if content == "" {
		return nil, nil
	}

	r := toLSPRange(doc.Range(info.Start, info.End))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &r,
	}, nil
}

func followedByDot(text string, offset int) bool {
	return offset < len(text) && text[offset] == '.'
}

// includeHover describes the target of an includescript directive.
func (s *Server) includeHover(idText string) string {
	id, ok := parseScriptNumber(idText)
	if !ok {
		return ""
	}
	ws, err := s.fullWorkspace()
	if err != nil {
		log.Errorf("hover: %s", err)
		return ""
	}
	ix, err := ws.Index()
	if err != nil {
		log.Errorf("hover: %s", err)
		return ""
	}
	defs := ix.Definitions(id)
	if len(defs) == 0 {
		return fmt.Sprintf("**script** %d\n\n*not defined in the workspace*", id)
	}
	return buildScriptHover(defs[0], len(defs), len(ix.Insertions(id)))
}

// buildScriptHover builds Markdown hover text for a script definition.
func buildScriptHover(sc *analysis.Script, defs, insertions int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**script** %d `%s`", sc.ID, sc.Name)
	if len(sc.Fields) > 0 {
		fmt.Fprintf(&sb, "\n\n%s", strings.Join(sc.Fields, ", "))
	}
	var hooks []string
	for _, h := range sc.Hooks {
		if !h.Malformed {
			hooks = append(hooks, "`"+h.Name+"`")
		}
	}
	if len(hooks) > 0 {
		fmt.Fprintf(&sb, "\n\nHooks: %s", strings.Join(hooks, ", "))
	}
	if insertions > 0 {
		fmt.Fprintf(&sb, "\n\n%d insertion block(s)", insertions)
	}
	if defs > 1 {
		fmt.Fprintf(&sb, "\n\n**defined %d times**", defs)
	}
	fmt.Fprintf(&sb, "\n\n*Defined in %s:%d*", document.PathFromURI(sc.URI), sc.HeaderRange.Start.Line+1)
	return sb.String()
}
