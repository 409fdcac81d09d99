// Copyright © 2026 The futurec authors

package lsp

import (
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
)

const diagnosticSource = "futurec"

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(params.TextDocument.URI)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	uri := params.TextDocument.URI
	s.docs.Change(uri, int32(params.TextDocument.Version), content)

	// Debounce: delay analysis to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
	}
	s.debounce[uri] = time.AfterFunc(s.debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("diagnostics for %s panicked: %v", uri, r)
			}
		}()
		s.analyzeAndPublish(uri)
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.stopDebounce(params.TextDocument.URI)
	s.analyzeAndPublish(params.TextDocument.URI)
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.stopDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) stopDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish parses every block of an open document and publishes
// the findings of all severities.
func (s *Server) analyzeAndPublish(uri string) {
	doc := s.docs.Get(uri)
	if doc == nil {
		return
	}
	diags := s.liveDiagnostics(s.openWorkspace(), doc)
	s.publish(uri, diags)
	log.Debug("published diagnostics", "uri", uri, "count", len(diags))
}

// liveDiagnostics returns the non-strict diagnostics of every block of doc.
// Workspace-wide checks are left to the whole-graph run.
func (s *Server) liveDiagnostics(ws *analysis.Workspace, doc *document.Document) []diagnostic.Diagnostic {
	scripts, err := ws.Scripts(doc.URI)
	if err != nil {
		log.Errorf("scanning %s: %s", doc.URI, err)
		return nil
	}
	var diags []diagnostic.Diagnostic
	for _, sc := range scripts {
		res, err := s.cache.parse(s.baseCtx, ws, doc, sc)
		if err != nil {
			log.Errorf("parsing %s: %s", sc, err)
			continue
		}
		diags = append(diags, res.Diagnostics...)
	}
	return diags
}

// publish sends diagnostics for one document. A nil slice clears them.
func (s *Server) publish(uri string, diags []diagnostic.Diagnostic) {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, convertDiagnostic(d))
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

// convertDiagnostic converts a diagnostic.Diagnostic to an LSP Diagnostic.
// Notes are appended to the message, one per line.
func convertDiagnostic(d diagnostic.Diagnostic) protocol.Diagnostic {
	msg := d.Message
	if len(d.Notes) > 0 {
		msg += "\n" + strings.Join(d.Notes, "\n")
	}
	sev := mapSeverity(d.Severity)
	pd := protocol.Diagnostic{
		Range:    toLSPRange(d.Range),
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	}
	if d.Code != "" {
		pd.Code = &protocol.IntegerOrString{Value: d.Code}
	}
	return pd
}

// mapSeverity converts a diagnostic.Severity to a protocol.DiagnosticSeverity.
func mapSeverity(sev diagnostic.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diagnostic.SeverityError:
		return protocol.DiagnosticSeverityError
	case diagnostic.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diagnostic.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case diagnostic.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func strPtr(s string) *string {
	return &s
}
