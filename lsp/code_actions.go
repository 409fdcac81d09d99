// Copyright © 2026 The futurec authors

package lsp

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// didYouMean extracts the suggestion attached to unknown function
// diagnostics.
var didYouMean = regexp.MustCompile(`did you mean ([^.\s]+)\.([^?\s]+)\?`)

// textDocumentCodeAction handles the textDocument/codeAction request.
// It returns quick-fix actions for diagnostics in the requested range.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		// Only handle diagnostics we published.
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		var action *protocol.CodeAction
		switch fmt.Sprintf("%v", diag.Code.Value) {
		case "unknown-function":
			action = replaceFunctionAction(doc.URI, diag)
		case "missing-endscript":
			action = terminateScriptAction(doc, diag)
		case analysis.CodeDanglingInclude:
			action = createScriptAction(doc, diag)
		}
		if action != nil {
			actions = append(actions, *action)
		}
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

func quickFix(title, uri string, diag protocol.Diagnostic, edit protocol.TextEdit) *protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return &protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{uri: {edit}},
		},
	}
}

// replaceFunctionAction renames an unknown function to the suggested
// catalog function.
func replaceFunctionAction(uri string, diag protocol.Diagnostic) *protocol.CodeAction {
	m := didYouMean.FindStringSubmatch(diag.Message)
	if m == nil {
		return nil
	}
	return quickFix(fmt.Sprintf("Change to %s.%s", m[1], m[2]), uri, diag,
		protocol.TextEdit{Range: diag.Range, NewText: m[2]})
}

// terminateScriptAction appends an ENDSCRIPT line to the block whose
// header carries the diagnostic.
func terminateScriptAction(doc *document.Document, diag protocol.Diagnostic) *protocol.CodeAction {
	sc := scriptAt(doc, diag.Range.Start)
	if sc == nil || sc.Terminated {
		return nil
	}
	text := analysis.EndScript + "\n"
	if sc.End > 0 && doc.Text[sc.End-1] != '\n' {
		text = "\n" + text
	}
	pos := toLSPPosition(doc.PositionAt(sc.End))
	return quickFix("Add "+analysis.EndScript, doc.URI, diag,
		protocol.TextEdit{Range: protocol.Range{Start: pos, End: pos}, NewText: text})
}

// createScriptAction inserts an empty definition of an undefined
// included script at its ordered place in the current document.
func createScriptAction(doc *document.Document, diag protocol.Diagnostic) *protocol.CodeAction {
	start, ok1 := offsetAt(doc, diag.Range.Start)
	end, ok2 := offsetAt(doc, diag.Range.End)
	if !ok1 || !ok2 {
		return nil
	}
	id, ok := parseScriptNumber(strings.TrimSpace(doc.Slice(start, end)))
	if !ok {
		return nil
	}
	ip := analysis.FindInsertPoint(doc, id, "")
	if ip.Exists {
		return nil
	}
	pos := toLSPPosition(ip.Script)
	text := fmt.Sprintf("%s%d,\n%s\n", analysis.ScriptHeader, id, analysis.EndScript)
	if off, ok := doc.OffsetAt(ip.Script); ok && off > 0 && doc.Text[off-1] != '\n' {
		text = "\n" + text
	}
	return quickFix(fmt.Sprintf("Create script %d", id), doc.URI, diag,
		protocol.TextEdit{Range: protocol.Range{Start: pos, End: pos}, NewText: text})
}
