// Copyright © 2026 The futurec authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/futurec/futurec/analysis"
)

const testCatalog = `
namespaces:
  - name: S
    doc: Record functions.
    closed: true
    functions:
      - name: GetField
        doc: Returns the value of a field.
        params:
          - {name: field, type: string}
        returns: string
      - name: Undocumented
`

func testConfig(t *testing.T) *cmdConfig {
	t.Helper()
	cat, err := analysis.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	cfg := newConfig([]Option{WithCatalog(cat)})
	return &cfg
}

// testWorkspace writes files into a fresh root and returns settings
// pointing at it.
func testWorkspace(t *testing.T, files map[string]string) settings {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
	return settings{
		Root:         root,
		Extensions:   analysis.DefaultExtensions,
		Workers:      2,
		CheckTimeout: time.Minute,
	}
}

const (
	mainText = "SCRIPT:1,Main\nx = S.GetField(\"a\");\nincludescript 2\nENDSCRIPT\n"
	libText  = "SCRIPT:2,Lib\ny = 1;\nENDSCRIPT\n"
)
