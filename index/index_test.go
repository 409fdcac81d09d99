// Copyright © 2026 The futurec authors

package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

func testIndex(t *testing.T, texts map[string]string) *analysis.Index {
	t.Helper()
	ix, err := analysis.NewWorkspace(document.FromTexts(texts), nil).Index()
	require.NoError(t, err)
	return ix
}

var workspace = map[string]string{
	"a": "SCRIPT:1,Main\nincludescript 2\nincludescript 2\nENDSCRIPT\n",
	"b": "SCRIPT:2,Lib\n//ADDHOOK-2-Save\n//ADDHOOK-2-Load\nENDSCRIPT\nINSERTINTOSCRIPT:2,Save\nENDSCRIPT\n",
}

func TestStoreAndLookup(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Store(ctx, testIndex(t, workspace)))

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := db.Lookup(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Kind: "script", Number: 2, Name: "Lib", URI: "b", StartLine: 0, EndLine: 3, Terminated: true},
		{Kind: "insertion", Number: 2, Name: "Save", URI: "b", StartLine: 4, EndLine: 5, Terminated: true},
	}, entries)

	entries, err = db.Lookup(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, entries)

	refs, err := db.Includers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Main", refs[0].Script.Name)
	assert.Equal(t, 1, refs[0].Line)
	assert.Equal(t, 2, refs[1].Line)

	hooks, err := db.Hooks(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Load", "Save"}, hooks)
}

func TestStoreReplaces(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Store(ctx, testIndex(t, workspace)))
	require.NoError(t, db.Store(ctx, testIndex(t, map[string]string{"c": "SCRIPT:7,Only\nENDSCRIPT\n"})))

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	refs, err := db.Includers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Store(context.Background(), testIndex(t, workspace)))
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	entries, err := db.Lookup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Main", entries[0].Name)
}
