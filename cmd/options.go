// Copyright © 2026 The futurec authors

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// Option configures an exported command factory (CheckCommand,
// DocCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	catalog *analysis.Catalog
}

// WithCatalog injects a parser function catalog. It takes precedence over
// the configured catalog file and the one found in the workspace.
func WithCatalog(c *analysis.Catalog) Option {
	return func(cfg *cmdConfig) { cfg.catalog = c }
}

func newConfig(opts []Option) cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// resolveCatalog returns the best available catalog: an injected one,
// then the configured file, then the workspace catalog or the built-in
// default.
func (c *cmdConfig) resolveCatalog(s settings) (*analysis.Catalog, error) {
	if c.catalog != nil {
		return c.catalog, nil
	}
	if s.Catalog != "" {
		return analysis.LoadCatalog(s.Catalog)
	}
	cat, _, err := analysis.FindCatalog(s.Root)
	return cat, err
}

// loadWorkspace snapshots the host files under the configured root plus
// any extra files named on the command line.
func loadWorkspace(s settings, cat *analysis.Catalog, extra ...string) (*analysis.Workspace, error) {
	paths, err := analysis.ScanWorkspace(s.Root, s.Extensions)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.Root, err)
	}
	seen := make(map[string]bool, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err == nil {
			paths[i] = abs
		}
		seen[paths[i]] = true
	}
	for _, p := range extra {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if !seen[abs] {
			seen[abs] = true
			paths = append(paths, abs)
		}
	}
	return analysis.NewWorkspace(document.NewSnapshot(nil, paths), cat), nil
}

// fileURI returns the document URI of a command line path.
func fileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return document.URIFromPath(abs), nil
}
