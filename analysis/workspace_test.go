// Copyright © 2026 The futurec authors

package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/futurec/futurec/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
}

func TestScanWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.cpp"), "")
	writeFile(t, filepath.Join(dir, "a.CPP"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.cpp"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".git", "x.cpp"), "")
	writeFile(t, filepath.Join(dir, "node_modules", "y.cpp"), "")

	paths, err := ScanWorkspace(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.CPP"),
		filepath.Join(dir, "b.cpp"),
		filepath.Join(dir, "sub", "c.cpp"),
	}, paths)
}

func TestScanWorkspaceExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.cpp"), "")
	writeFile(t, filepath.Join(dir, "b.h"), "")
	writeFile(t, filepath.Join(dir, "c.fc"), "")

	paths, err := ScanWorkspace(dir, []string{"h", ".fc"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.h"), filepath.Join(dir, "c.fc")}, paths)
}

func TestScanWorkspaceMissingRoot(t *testing.T) {
	_, err := ScanWorkspace(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestWorkspaceFromDisk(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cpp")
	b := filepath.Join(dir, "b.cpp")
	writeFile(t, a, "SCRIPT:1,A\nincludescript 2\nENDSCRIPT\n")
	writeFile(t, b, "SCRIPT:2,B\nENDSCRIPT\nINSERTINTOSCRIPT:2,Hook\nENDSCRIPT\n")

	paths, err := ScanWorkspace(dir, nil)
	require.NoError(t, err)
	ws := NewWorkspace(document.NewSnapshot(nil, paths), DefaultCatalog())

	ix, err := ws.Index()
	require.NoError(t, err)
	assert.Len(t, ix.Scripts(), 3)
	assert.Equal(t, []int{1, 2}, ix.IDs())
	require.NotNil(t, ix.Lookup(2))
	assert.Equal(t, document.URIFromPath(b), ix.Lookup(2).URI)
	assert.Nil(t, ix.Lookup(3))
	assert.Len(t, ix.Insertions(2), 1)
	assert.Len(t, ix.Definitions(2), 1)

	sites := ix.IncludeSites(2)
	require.Len(t, sites, 1)
	assert.Equal(t, "A", sites[0].Script.Name)
	assert.Equal(t, 2, sites[0].Include.ID)
}

func TestWorkspaceOverlayShadowsDisk(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cpp")
	writeFile(t, a, "SCRIPT:1,OnDisk\nENDSCRIPT\n")

	uri := document.URIFromPath(a)
	snap := document.NewSnapshot([]*document.Document{
		document.New(uri, "SCRIPT:1,Edited\nENDSCRIPT\n"),
	}, []string{a})
	ws := NewWorkspace(snap, nil)

	scripts, err := ws.Scripts(uri)
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "Edited", scripts[0].Name)

	again, err := ws.Scripts(uri)
	require.NoError(t, err)
	assert.Same(t, scripts[0], again[0])
}

func TestIndexSkipsInvalidIDs(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:x,Bad\nENDSCRIPT\nSCRIPT:4,Good\nENDSCRIPT\n",
	})
	ix, err := ws.Index()
	require.NoError(t, err)
	assert.Len(t, ix.Scripts(), 2)
	assert.Equal(t, []int{4}, ix.IDs())
}
