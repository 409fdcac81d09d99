// Copyright © 2026 The futurec authors

package analysis

import (
	"errors"
	"testing"

	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkspace(texts map[string]string) *Workspace {
	return NewWorkspace(document.FromTexts(texts), nil)
}

type scriptRef struct {
	ID   int
	Name string
	URI  string
}

func refs(scripts []*Script) []scriptRef {
	out := make([]scriptRef, len(scripts))
	for i, s := range scripts {
		out[i] = scriptRef{s.ID, s.Name, s.URI}
	}
	return out
}

func TestAllScriptsFollowsIncludes(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,Foo\nincludescript 2\nENDSCRIPT\n",
		"b": "SCRIPT:2,Bar\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	assert.Equal(t, []scriptRef{{1, "Foo", "a"}, {2, "Bar", "b"}}, refs(res.Scripts))
	assert.Empty(t, res.Diagnostics)
}

func TestAllScriptsTransitiveDepthFirst(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,A\nincludescript 2\nincludescript 3\nENDSCRIPT\n",
		"b": "SCRIPT:2,B\nincludescript 4\nENDSCRIPT\n",
		"c": "SCRIPT:3,C\nENDSCRIPT\nSCRIPT:4,D\nincludescript 5\nENDSCRIPT\n",
		"d": "SCRIPT:5,E\nincludescript 3\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	assert.Equal(t, []scriptRef{
		{1, "A", "a"},
		{2, "B", "b"},
		{4, "D", "c"},
		{5, "E", "d"},
		{3, "C", "c"},
	}, refs(res.Scripts))
}

func TestAllScriptsCycle(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,A\nincludescript 2\nincludescript 1\nENDSCRIPT\n",
		"b": "SCRIPT:2,B\nincludescript 1\nincludescript 2\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	assert.Equal(t, []scriptRef{{1, "A", "a"}, {2, "B", "b"}}, refs(res.Scripts))
}

func TestAllScriptsIdempotent(t *testing.T) {
	texts := map[string]string{
		"a": "SCRIPT:1,A\nincludescript 3\nincludescript 9\nENDSCRIPT\n",
		"b": "SCRIPT:3,B\nincludescript 2\nENDSCRIPT\n",
		"c": "SCRIPT:2,C\nENDSCRIPT\n",
	}
	first, err := AllScripts(testWorkspace(texts), "a")
	require.NoError(t, err)
	second, err := AllScripts(testWorkspace(texts), "a")
	require.NoError(t, err)
	assert.Equal(t, refs(first.Scripts), refs(second.Scripts))
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestAllScriptsDanglingInclude(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,A\nincludescript 99\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	assert.Len(t, res.Scripts, 1)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, CodeDanglingInclude, d.Code)
	assert.Equal(t, "a", d.URI)
	assert.Equal(t, document.Range{
		Start: document.Position{Line: 1, Character: 14},
		End:   document.Position{Line: 1, Character: 16},
	}, d.Range)
}

func TestAllScriptsFocalBlocksAllEmitted(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,A\nENDSCRIPT\nINSERTINTOSCRIPT:1,Hook\nENDSCRIPT\nSCRIPT:1,Again\nincludescript 1\nENDSCRIPT\n",
		"b": "SCRIPT:1,Elsewhere\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	require.Len(t, res.Scripts, 3)
	assert.Equal(t, KindInsertion, res.Scripts[1].Kind)
	assert.Equal(t, "Again", res.Scripts[2].Name)
}

func TestAllScriptsPrefersFirstDefinitionInIndexOrder(t *testing.T) {
	ws := testWorkspace(map[string]string{
		"a": "SCRIPT:1,A\nincludescript 5\nENDSCRIPT\n",
		"c": "SCRIPT:5,Late\nENDSCRIPT\n",
		"b": "SCRIPT:5,Early\nENDSCRIPT\n",
	})
	res, err := AllScripts(ws, "a")
	require.NoError(t, err)
	require.Len(t, res.Scripts, 2)
	assert.Equal(t, "Early", res.Scripts[1].Name)
}

func TestAllScriptsNoScripts(t *testing.T) {
	res, err := AllScripts(testWorkspace(map[string]string{"a": "int main() {}"}), "a")
	require.NoError(t, err)
	assert.Empty(t, res.Scripts)
	assert.Empty(t, res.Diagnostics)
}

func TestAllScriptsReadFailure(t *testing.T) {
	_, err := AllScripts(testWorkspace(map[string]string{"a": ""}), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrNotFound))

	snap := document.NewSnapshot([]*document.Document{
		document.New("file:///ws/a.cpp", "SCRIPT:1,A\nincludescript 2\nENDSCRIPT\n"),
	}, []string{"/ws/broken.cpp"})
	snap.ReadFile = func(string) ([]byte, error) { return nil, errors.New("disk on fire") }
	_, err = AllScripts(NewWorkspace(snap, nil), "file:///ws/a.cpp")
	assert.ErrorContains(t, err, "disk on fire")
}
