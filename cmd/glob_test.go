// Copyright © 2026 The futurec authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.cpp",
		"src/generated.cpp",
		"lib/utils.cpp",
	}
	result := filterExcludes(paths, []string{"generated.cpp"})
	assert.Equal(t, []string{"src/main.cpp", "lib/utils.cpp"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.cpp",
		"build/output.cpp",
		"build/sub/deep.cpp",
		"lib/utils.cpp",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.cpp", "lib/utils.cpp"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.cpp",
		"src/old_foo.cpp",
		"src/old_bar.cpp",
		"lib/utils.cpp",
	}
	result := filterExcludes(paths, []string{"old_*"})
	assert.Equal(t, []string{"src/main.cpp", "lib/utils.cpp"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{"src/main.cpp", "lib/utils.cpp"}
	assert.Equal(t, paths, filterExcludes(paths, []string{"nonexistent"}))
	assert.Equal(t, paths, filterExcludes(paths, nil))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("src/main.cpp", []string{"src/*.cpp"}))
	assert.False(t, matchesAny("lib/main.cpp", []string{"src/*.cpp"}))
	assert.True(t, matchesAny("deep/nested/main.cpp", []string{"main.cpp"}))
	assert.True(t, matchesAny("project/build/output.cpp", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.cpp", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.cpp"}, splitPath("./a/b/c.cpp"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.cpp", "sub/b.CPP", "notes.txt", "sub/skip.cpp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files, err := expandArgs([]string{dir + "/...", "other.cpp"}, []string{".cpp"}, []string{"skip.cpp"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.cpp"),
		filepath.Join(dir, "sub", "b.CPP"),
		"other.cpp",
	}, files)
}
