// Copyright © 2026 The futurec authors

package lsp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/help"
	"github.com/futurec/futurec/parser/lexer"
)

type completionKind int

const (
	completeNamespace completionKind = iota
	completeFunction
	completeScript
)

// completionContext describes what is being typed at the cursor.
type completionContext struct {
	kind      completionKind
	namespace string
	prefix    string
}

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset, ok := offsetAt(doc, params.Position)
	if !ok {
		return nil, nil
	}

	cc := completionAt(doc.Text, offset)
	var items []protocol.CompletionItem
	switch cc.kind {
	case completeFunction:
		items = s.functionCompletions(cc.namespace, cc.prefix)
	case completeScript:
		items = s.scriptCompletions(cc.prefix)
	default:
		items = s.namespaceCompletions(cc.prefix)
	}
	return items, nil
}

// completionAt finds the identifier prefix ending at offset and what
// precedes it.
func completionAt(text string, offset int) completionContext {
	start := offset
	for start > 0 {
		c, n := utf8.DecodeLastRuneInString(text[:start])
		if !lexer.IsWord(c) {
			break
		}
		start -= n
	}
	cc := completionContext{prefix: text[start:offset]}
	if start > 0 && text[start-1] == '.' {
		cc.kind = completeFunction
		cc.namespace = wordEndingAt(text, start-1)
		return cc
	}
	if afterIncludeKeyword(text, start) {
		cc.kind = completeScript
	}
	return cc
}

func wordEndingAt(text string, offset int) string {
	i := offset
	for i > 0 {
		c, n := utf8.DecodeLastRuneInString(text[:i])
		if !lexer.IsWord(c) {
			break
		}
		i -= n
	}
	return text[i:offset]
}

// afterIncludeKeyword reports whether text[:offset] ends with the
// includescript keyword and at least one blank.
func afterIncludeKeyword(text string, offset int) bool {
	before := strings.TrimRight(text[:offset], " \t")
	if len(before) == offset || !strings.HasSuffix(before, analysis.IncludeKeyword) {
		return false
	}
	return wordEndingAt(before, len(before)) == analysis.IncludeKeyword
}

// rankNames orders names by fuzzy match against prefix. An empty prefix
// keeps every name in sorted order.
func rankNames(prefix string, names []string) []string {
	if prefix == "" {
		out := make([]string, len(names))
		copy(out, names)
		sort.Strings(out)
		return out
	}
	ranks := fuzzy.RankFindFold(prefix, names)
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

// functionCompletions returns the functions of a namespace.
func (s *Server) functionCompletions(namespace, prefix string) []protocol.CompletionItem {
	ns := s.getCatalog().Namespace(namespace)
	if ns == nil {
		return nil
	}
	var items []protocol.CompletionItem
	for i, name := range rankNames(prefix, ns.Names()) {
		fn, _ := ns.Function(name)
		kind := protocol.CompletionItemKindFunction
		detail := fn.Signature(ns.Name)
		items = append(items, protocol.CompletionItem{
			Label:    name,
			Kind:     &kind,
			Detail:   &detail,
			SortText: strPtr(sortKey(i)),
			Documentation: &protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: help.Markdown(ns.Name, fn),
			},
		})
	}
	return items
}

// namespaceCompletions returns the catalog namespaces and the include
// keyword.
func (s *Server) namespaceCompletions(prefix string) []protocol.CompletionItem {
	cat := s.getCatalog()
	var items []protocol.CompletionItem
	if cat != nil {
		for _, ns := range cat.Namespaces {
			if prefix != "" && !strings.HasPrefix(ns.Name, prefix) {
				continue
			}
			kind := protocol.CompletionItemKindModule
			item := protocol.CompletionItem{Label: ns.Name, Kind: &kind}
			if doc := strings.TrimSpace(ns.Doc); doc != "" {
				item.Detail = &doc
			}
			items = append(items, item)
		}
	}
	if strings.HasPrefix(analysis.IncludeKeyword, prefix) {
		kind := protocol.CompletionItemKindKeyword
		items = append(items, protocol.CompletionItem{Label: analysis.IncludeKeyword, Kind: &kind})
	}
	return items
}

// scriptCompletions returns the script numbers defined in the workspace.
func (s *Server) scriptCompletions(prefix string) []protocol.CompletionItem {
	ws, err := s.fullWorkspace()
	if err != nil {
		log.Errorf("completion: %s", err)
		return nil
	}
	ix, err := ws.Index()
	if err != nil {
		log.Errorf("completion: %s", err)
		return nil
	}
	var items []protocol.CompletionItem
	for i, id := range ix.IDs() {
		label := strconv.Itoa(id)
		if !strings.HasPrefix(label, prefix) {
			continue
		}
		sc := ix.Lookup(id)
		kind := protocol.CompletionItemKindReference
		detail := sc.Name
		items = append(items, protocol.CompletionItem{
			Label:    label,
			Kind:     &kind,
			Detail:   &detail,
			SortText: strPtr(sortKey(i)),
		})
	}
	return items
}

// sortKey keeps the client from re-sorting numeric and ranked items.
func sortKey(i int) string {
	return fmt.Sprintf("%05d", i)
}
