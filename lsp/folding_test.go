// Copyright © 2026 The futurec authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/futurec/futurec/document"
)

func TestFoldingRange(t *testing.T) {
	s := testServer()

	fold := func(t *testing.T, uri string) []protocol.FoldingRange {
		t.Helper()
		result, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		require.NoError(t, err)
		return result
	}

	t.Run("script blocks are folded", func(t *testing.T) {
		doc := openDoc(s, "file:///test/fixture.cpp", libText)
		regions := filterFoldKind(fold(t, doc.URI), protocol.FoldingRangeKindRegion)
		require.Len(t, regions, 2)
		assert.Equal(t, protocol.UInteger(0), regions[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), regions[0].EndLine)
		assert.Equal(t, protocol.UInteger(3), regions[1].StartLine)
		assert.Equal(t, protocol.UInteger(5), regions[1].EndLine)
	})

	t.Run("single-line block is not folded", func(t *testing.T) {
		doc := openDoc(s, "file:///test/single.cpp", "SCRIPT:1,A")
		assert.Empty(t, filterFoldKind(fold(t, doc.URI), protocol.FoldingRangeKindRegion))
	})

	t.Run("unterminated block stops before the next header", func(t *testing.T) {
		doc := openDoc(s, "file:///test/open.cpp", "SCRIPT:1,A\nx = 1;\nSCRIPT:2,B\nENDSCRIPT\n")
		regions := filterFoldKind(fold(t, doc.URI), protocol.FoldingRangeKindRegion)
		require.Len(t, regions, 2)
		assert.Equal(t, protocol.UInteger(0), regions[0].StartLine)
		assert.Equal(t, protocol.UInteger(1), regions[0].EndLine)
	})

	t.Run("consecutive comments produce a comment fold", func(t *testing.T) {
		src := "SCRIPT:1,A\n// line 1\n// line 2\n// line 3\nx = 1;\nENDSCRIPT\n"
		doc := openDoc(s, "file:///test/comments.cpp", src)
		comments := filterFoldKind(fold(t, doc.URI), protocol.FoldingRangeKindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, protocol.UInteger(1), comments[0].StartLine)
		assert.Equal(t, protocol.UInteger(3), comments[0].EndLine)
	})

	t.Run("comments outside blocks are not folded", func(t *testing.T) {
		doc := openDoc(s, "file:///test/host.cpp", "// a\n// b\n// c\n")
		assert.Empty(t, fold(t, doc.URI))
	})

	t.Run("nil doc returns nil", func(t *testing.T) {
		assert.Nil(t, fold(t, "file:///missing.cpp"))
	})
}

func TestCommentFoldingRanges(t *testing.T) {
	t.Run("two separate blocks", func(t *testing.T) {
		doc := document.New("a", "// a\n// b\n\n// c\n// d")
		ranges := commentFoldingRanges(doc, 0, 4)
		require.Len(t, ranges, 2)
		assert.Equal(t, protocol.UInteger(3), ranges[1].StartLine)
		assert.Equal(t, protocol.UInteger(4), ranges[1].EndLine)
	})

	t.Run("hook markers break comment runs", func(t *testing.T) {
		doc := document.New("a", "// a\n//ADDHOOK-1-X\n// b")
		assert.Empty(t, commentFoldingRanges(doc, 0, 2))
	})

	t.Run("bounded by the block", func(t *testing.T) {
		doc := document.New("a", "// a\n// b\n// c\n// d")
		ranges := commentFoldingRanges(doc, 1, 2)
		require.Len(t, ranges, 1)
		assert.Equal(t, protocol.UInteger(1), ranges[0].StartLine)
		assert.Equal(t, protocol.UInteger(2), ranges[0].EndLine)
	})
}

// filterFoldKind returns only folding ranges with the given kind.
func filterFoldKind(ranges []protocol.FoldingRange, kind protocol.FoldingRangeKind) []protocol.FoldingRange {
	var result []protocol.FoldingRange
	for _, r := range ranges {
		if r.Kind != nil && *r.Kind == string(kind) {
			result = append(result, r)
		}
	}
	return result
}
