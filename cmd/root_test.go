// Copyright © 2026 The futurec authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurec/futurec/lsp"
)

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"check", "classify", "doc", "index", "lsp", "scripts"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	setDefaults(v)
	require.NoError(t, loadConfig(v, ""))

	s := settingsFrom(v)
	assert.Equal(t, ".", s.Root)
	assert.Equal(t, []string{".cpp"}, s.Extensions)
	assert.Equal(t, lsp.DefaultDebounce, s.Debounce)
	assert.Equal(t, lsp.DefaultCheckTimeout, s.CheckTimeout)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "futurec.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
catalog: defs.json
extensions: [.cpp, .h]
workers: 3
debounce: 50ms
check:
  timeout: 1m
`), 0o600))
	t.Setenv("FUTUREC_CHECK_TIMEOUT", "5s")

	v := viper.New()
	setDefaults(v)
	require.NoError(t, loadConfig(v, file))

	s := settingsFrom(v)
	assert.Equal(t, "defs.json", s.Catalog)
	assert.Equal(t, []string{".cpp", ".h"}, s.Extensions)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, 50*time.Millisecond, s.Debounce)
	assert.Equal(t, 5*time.Second, s.CheckTimeout, "environment overrides the file")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := loadConfig(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveCatalog(t *testing.T) {
	t.Run("injected catalog wins", func(t *testing.T) {
		cfg := testConfig(t)
		cat, err := cfg.resolveCatalog(settings{Catalog: "/does/not/exist.json"})
		require.NoError(t, err)
		assert.Same(t, cfg.catalog, cat)
	})

	t.Run("configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "defs.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
		var cfg cmdConfig
		cat, err := cfg.resolveCatalog(settings{Catalog: path})
		require.NoError(t, err)
		_, ok := cat.Lookup("S", "Undocumented")
		assert.True(t, ok)
	})

	t.Run("workspace catalog", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{
			".futurec/scriptautocompletedefs.json": `{"namespaces": [{"name": "Z", "functions": [{"name": "Zap"}]}]}`,
		})
		var cfg cmdConfig
		cat, err := cfg.resolveCatalog(s)
		require.NoError(t, err)
		_, ok := cat.Lookup("Z", "Zap")
		assert.True(t, ok)
	})

	t.Run("missing configured file", func(t *testing.T) {
		var cfg cmdConfig
		_, err := cfg.resolveCatalog(settings{Catalog: filepath.Join(t.TempDir(), "none.json")})
		assert.Error(t, err)
	})
}

func TestLSPCommand_DefaultFlags(t *testing.T) {
	cmd := LSPCommand()
	assert.Equal(t, "lsp [flags]", cmd.Use)
	for _, name := range []string{"stdio", "port", "log-file", "verbose", "debounce", "check-timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.NotNil(t, cmd.Flags().ShorthandLookup("v"))
}

func TestServerOptions(t *testing.T) {
	s := settings{Root: ".", Extensions: []string{".cpp"}, Debounce: time.Second}
	var empty cmdConfig
	assert.Len(t, serverOptions(s, &empty), 4)

	s.Root = "/ws"
	assert.Len(t, serverOptions(s, testConfig(t)), 6, "root and catalog options are added")

	s.Catalog = filepath.Join(t.TempDir(), "broken.json")
	assert.Len(t, serverOptions(s, &empty), 5, "an unreadable catalog is skipped")
}
