// Copyright © 2026 The futurec authors

package help_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/help"
)

const testCatalog = `
namespaces:
  - name: S
    doc: Record functions.
    functions:
      - name: GetField
        doc: Returns the value of a field of the current record.
        params:
          - {name: field, type: string, doc: Field name.}
        returns: string
      - name: Undocumented
  - name: H
    functions:
      - name: Log
        doc: Writes a line to the host log.
        variadic: true
`

func testCatalogValue(t *testing.T) *analysis.Catalog {
	t.Helper()
	c, err := analysis.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	return c
}

func TestCheckMissing(t *testing.T) {
	missing := help.CheckMissing(testCatalogValue(t))
	assert.Equal(t, []help.MissingDoc{
		{Kind: "namespace", Name: "H"},
		{Kind: "function", Name: "S.Undocumented"},
	}, missing)
	assert.Empty(t, help.CheckMissing(nil))
}

func TestRenderNamespaceList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, help.RenderNamespaceList(&buf, testCatalogValue(t)))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  H            (1 functions)", lines[0])
	assert.Equal(t, "  S             Record functions. (2 functions)", lines[1])
}

func TestRenderFunction(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, help.RenderFunction(&buf, testCatalogValue(t), "S.GetField"))
	assert.Equal(t,
		"S.GetField(string field) string\n"+
			"  Returns the value of a field of the current record.\n"+
			"    field: Field name.\n",
		buf.String())

	err := help.RenderFunction(&buf, testCatalogValue(t), "S.Nope")
	assert.EqualError(t, err, `no function: "S.Nope"`)
}

func TestRenderNamespace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, help.RenderFunction(&buf, testCatalogValue(t), "S"))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "namespace S\n  Record functions.\n\n"))
	assert.Contains(t, out, "S.GetField(string field) string\n")
	assert.Contains(t, out, "\nS.Undocumented()\n")

	err := help.RenderNamespace(&buf, testCatalogValue(t), "Q")
	assert.EqualError(t, err, `no namespace: "Q"`)
}

func TestMarkdown(t *testing.T) {
	c := testCatalogValue(t)
	fn, ok := c.Lookup("S", "GetField")
	require.True(t, ok)
	assert.Equal(t,
		"```futurec\nS.GetField(string field) string\n```\n\n"+
			"Returns the value of a field of the current record.\n\n"+
			"- `field`: Field name.",
		help.Markdown("S", fn))

	fn, ok = c.Lookup("H", "Log")
	require.True(t, ok)
	assert.Equal(t, "```futurec\nH.Log(...)\n```\n\nWrites a line to the host log.", help.Markdown("H", fn))

	assert.Equal(t, "**namespace** `S` (2 functions)\n\nRecord functions.", help.NamespaceMarkdown(c.Namespace("S")))
}

func TestWrapsLongDocs(t *testing.T) {
	long := strings.Repeat("word ", 40)
	c, err := analysis.ParseCatalog([]byte("namespaces:\n  - name: S\n    functions:\n      - name: F\n        doc: " + long + "\n"))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, help.RenderFunction(&buf, c, "S.F"))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), help.Width+2)
	}
}
