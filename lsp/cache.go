// Copyright © 2026 The futurec authors

package lsp

import (
	"context"
	"io"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/lint"
	"github.com/futurec/futurec/parser/rdparser"
)

// maxCacheEntries bounds the parse cache. The cache is dropped as a whole
// when it fills up.
const maxCacheEntries = 2048

// parseKey identifies the text of one block at one place in one document.
// Results carry absolute offsets and positions, so the key holds both.
// Non-strict parse results depend on nothing else but the catalog, and
// the cache is reset whenever the catalog changes.
type parseKey struct {
	hash   uint64
	offset int
	line   int
}

// parseCache memoizes non-strict parses of unchanged blocks across edits.
type parseCache struct {
	linter  *lint.Linter
	mu      sync.Mutex
	entries map[parseKey]*rdparser.ParseResult
	hits    int
}

func newParseCache(l *lint.Linter) *parseCache {
	return &parseCache{
		linter:  l,
		entries: make(map[parseKey]*rdparser.ParseResult),
	}
}

func blockKey(doc *document.Document, s *analysis.Script) parseKey {
	h := xxh3.New()
	_, _ = io.WriteString(h, doc.URI)
	_, _ = io.WriteString(h, "\x00")
	_, _ = io.WriteString(h, doc.Text[s.Start:s.End])
	return parseKey{hash: h.Sum64(), offset: s.Start, line: s.Range.Start.Line}
}

// parse returns the non-strict parse of s, reusing an earlier result for
// identical text at the same offset.
func (c *parseCache) parse(ctx context.Context, ws *analysis.Workspace, doc *document.Document, s *analysis.Script) (*rdparser.ParseResult, error) {
	key := blockKey(doc, s)
	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()

	res, err := c.linter.LintScript(ctx, ws, s)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[parseKey]*rdparser.ParseResult)
	}
	c.entries[key] = res
	c.mu.Unlock()
	return res, nil
}

func (c *parseCache) reset() {
	c.mu.Lock()
	c.entries = make(map[parseKey]*rdparser.ParseResult)
	c.mu.Unlock()
}
