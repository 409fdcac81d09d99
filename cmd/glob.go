// Copyright © 2026 The futurec authors

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futurec/futurec/analysis"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// host files found recursively under the given directory, then drops
// paths matching any exclude pattern. Non-pattern arguments pass through
// unchanged.
func expandArgs(args, exts, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := analysis.ScanWorkspace(dir, exts)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

// filterExcludes returns the paths that match none of the patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name, or any of its
// directory components matches one of the glob patterns.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, comp := range splitPath(path) {
			if ok, _ := filepath.Match(pat, comp); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the slash separated components of path.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(path), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
