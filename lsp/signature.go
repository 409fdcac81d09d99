// Copyright © 2026 The futurec authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/parser/rdparser"
)

// textDocumentSignatureHelp handles textDocument/signatureHelp requests.
// It finds the innermost parser function call around the cursor, looks up
// its catalog signature, and returns parameter hints.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset, ok := offsetAt(doc, params.Position)
	if !ok {
		return nil, nil
	}
	sc := analysis.ScriptAt(analysis.ScanScripts(doc), offset)
	if sc == nil {
		return nil, nil
	}
	res, err := s.cache.parse(s.baseCtx, s.openWorkspace(), doc, sc)
	if err != nil {
		return nil, err
	}

	call := enclosingCall(res.Calls, offset)
	if call == nil {
		return nil, nil
	}
	fn, ok := s.getCatalog().Lookup(call.Namespace, call.Name)
	if !ok {
		return nil, nil
	}
	return buildSignatureHelp(call.Namespace, fn, call.ActiveArg(offset)), nil
}

// enclosingCall returns the innermost call whose parentheses contain
// offset. Calls are in source order, so the last match is innermost.
func enclosingCall(calls []rdparser.Call, offset int) *rdparser.Call {
	var best *rdparser.Call
	for i := range calls {
		if calls[i].Contains(offset) {
			best = &calls[i]
		}
	}
	return best
}

// buildSignatureHelp constructs an LSP SignatureHelp from a catalog
// function and active argument index.
func buildSignatureHelp(ns string, fn *analysis.Function, activeParam int) *protocol.SignatureHelp {
	labels := fn.ParamLabels()
	prefix := ns + "." + fn.Name + "("
	label := prefix + strings.Join(labels, ", ") + ")"
	if fn.Returns != "" {
		label += " " + fn.Returns
	}

	// Offset-based parameter labels into the signature label.
	var params []protocol.ParameterInformation
	offset := len(prefix)
	for i, pl := range labels {
		pi := protocol.ParameterInformation{
			Label: []protocol.UInteger{safeUint(offset), safeUint(offset + len(pl))},
		}
		if i < len(fn.Params) && fn.Params[i].Doc != "" {
			pi.Documentation = fn.Params[i].Doc
		}
		params = append(params, pi)
		offset += len(pl) + len(", ")
	}

	// Clamp active parameter to valid range; variadic tails stay on the
	// last label.
	ap := activeParam
	if len(params) > 0 && ap > len(params)-1 {
		ap = len(params) - 1
	}
	if ap < 0 {
		ap = 0
	}
	active := uint32(ap) // #nosec G115 -- clamped to [0, len(params)-1]

	sigInfo := protocol.SignatureInformation{
		Label:      label,
		Parameters: params,
	}
	if fn.Doc != "" {
		sigInfo.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: fn.Doc,
		}
	}

	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sigInfo},
		ActiveSignature: uintPtr(0),
		ActiveParameter: &active,
	}
}

func uintPtr(v uint32) *uint32 {
	return &v
}
