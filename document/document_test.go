// Copyright © 2026 The futurec authors

package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLines(t *testing.T) {
	doc := New("file:///a.cpp", "one\r\ntwo\nthree\n")
	assert.Equal(t, 4, doc.LineCount())
	assert.Equal(t, "one", doc.Line(0))
	assert.Equal(t, "two", doc.Line(1))
	assert.Equal(t, "three", doc.Line(2))
	assert.Equal(t, "", doc.Line(3))
	assert.Equal(t, "", doc.Line(9))
	assert.Equal(t, 5, doc.LineStart(1))
	assert.Equal(t, 3, doc.LineEnd(0))
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	doc := New("file:///a.cpp", "ab\nüx𝄞y\n")
	tests := []struct {
		offset int
		pos    Position
	}{
		{0, Position{0, 0}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{5, Position{1, 1}}, // after ü (2 bytes, 1 unit)
		{6, Position{1, 2}},
		{10, Position{1, 4}}, // after 𝄞 (4 bytes, 2 units)
		{11, Position{1, 5}},
		{12, Position{2, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.pos, doc.PositionAt(tt.offset), "offset %d", tt.offset)
		off, ok := doc.OffsetAt(tt.pos)
		require.True(t, ok, "position %v", tt.pos)
		assert.Equal(t, tt.offset, off, "position %v", tt.pos)
	}
}

func TestOffsetAtOutOfRange(t *testing.T) {
	doc := New("file:///a.cpp", "abc\nde")
	for _, pos := range []Position{
		{Line: -1, Character: 0},
		{Line: 0, Character: -1},
		{Line: 0, Character: 4},
		{Line: 2, Character: 0},
	} {
		_, ok := doc.OffsetAt(pos)
		assert.False(t, ok, "position %v", pos)
	}
	assert.Equal(t, Position{1, 2}, doc.PositionAt(100))
	assert.Equal(t, Position{0, 0}, doc.PositionAt(-5))
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: Position{1, 2}, End: Position{3, 0}}
	assert.True(t, r.Contains(Position{1, 2}))
	assert.True(t, r.Contains(Position{2, 50}))
	assert.True(t, r.Contains(Position{3, 0}))
	assert.False(t, r.Contains(Position{1, 1}))
	assert.False(t, r.Contains(Position{3, 1}))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/tmp/x.cpp", PathFromURI("file:///tmp/x.cpp"))
	assert.Equal(t, "file:///tmp/x.cpp", URIFromPath("/tmp/x.cpp"))
	assert.Equal(t, "rel.cpp", URIFromPath("rel.cpp"))
}

func TestSnapshotOverlayShadowsDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("disk"), 0o600))
	other := filepath.Join(dir, "b.cpp")
	require.NoError(t, os.WriteFile(other, []byte("other"), 0o600))

	uri := URIFromPath(path)
	snap := NewSnapshot([]*Document{New(uri, "buffer")}, []string{path, other})
	assert.Equal(t, []string{uri, URIFromPath(other)}, snap.URIs())

	doc, err := snap.Document(uri)
	require.NoError(t, err)
	assert.Equal(t, "buffer", doc.Text)

	doc, err = snap.Document(URIFromPath(other))
	require.NoError(t, err)
	assert.Equal(t, "other", doc.Text)
}

func TestSnapshotReadsDiskOnce(t *testing.T) {
	reads := 0
	snap := NewSnapshot(nil, []string{"/ws/a.cpp"})
	snap.ReadFile = func(path string) ([]byte, error) {
		reads++
		return []byte("v" + string(rune('0'+reads))), nil
	}
	first, err := snap.Document("file:///ws/a.cpp")
	require.NoError(t, err)
	second, err := snap.Document("file:///ws/a.cpp")
	require.NoError(t, err)
	assert.Equal(t, 1, reads)
	assert.Same(t, first, second)
	assert.Equal(t, "v1", second.Text)
}

func TestSnapshotErrors(t *testing.T) {
	snap := NewSnapshot(nil, []string{"/ws/missing.cpp"})
	snap.ReadFile = func(string) ([]byte, error) { return nil, os.ErrPermission }

	_, err := snap.Document("file:///ws/nope.cpp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = snap.Document("file:///ws/missing.cpp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestFromTexts(t *testing.T) {
	snap := FromTexts(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, snap.URIs())
	doc, err := snap.Document("b")
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Text)
}
