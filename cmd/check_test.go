// Copyright © 2026 The futurec authors

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurec/futurec/lint"
)

func TestCheckCommand_DefaultFlags(t *testing.T) {
	cmd := CheckCommand()
	assert.Equal(t, "check [flags] FILE...", cmd.Use)
	for _, name := range []string{"json", "strict", "exclude"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestRunCheck(t *testing.T) {
	cfg := testConfig(t)

	t.Run("clean graph", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{"main.cpp": mainText, "lib/lib.cpp": libText})
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{filepath.Join(s.Root, "main.cpp")}, checkOptions{})
		assert.Equal(t, exitOK, code, stderr.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("dangling include", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{"main.cpp": mainText})
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{filepath.Join(s.Root, "main.cpp")}, checkOptions{})
		assert.Equal(t, exitProblems, code)
		assert.Contains(t, stderr.String(), "[dangling-include]")
		assert.Contains(t, stderr.String(), "1 error, 0 warnings")
	})

	t.Run("json output", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{
			"main.cpp": "SCRIPT:1,Main\nS.Nope();\nincludescript 2\nENDSCRIPT\n",
		})
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{filepath.Join(s.Root, "main.cpp")}, checkOptions{json: true})
		assert.Equal(t, exitProblems, code)

		var rep lint.Report
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep))
		require.Len(t, rep.Diagnostics, 2)
		assert.Equal(t, "unknown-function", rep.Diagnostics[0].Code)
		assert.Equal(t, "dangling-include", rep.Diagnostics[1].Code)
		assert.Equal(t, 2, rep.Summary["error"])
	})

	t.Run("strict reports warnings", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{"main.cpp": "SCRIPT:3\nx = 1;\nENDSCRIPT\n"})
		args := []string{filepath.Join(s.Root, "main.cpp")}

		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitOK, runCheck(context.Background(), &stdout, &stderr, s, cfg, args, checkOptions{}))

		stderr.Reset()
		assert.Equal(t, exitProblems, runCheck(context.Background(), &stdout, &stderr, s, cfg, args, checkOptions{strict: true}))
		assert.Contains(t, stderr.String(), "[script-name]")
	})

	t.Run("shared scripts are reported once", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{
			"a.cpp":   "SCRIPT:1,A\nincludescript 3\nENDSCRIPT\n",
			"b.cpp":   "SCRIPT:2,B\nincludescript 3\nENDSCRIPT\n",
			"lib.cpp": "SCRIPT:3,Lib\nS.Nope();\nENDSCRIPT\n",
		})
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{s.Root + "/..."}, checkOptions{json: true})
		assert.Equal(t, exitProblems, code)
		var rep lint.Report
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep))
		assert.Len(t, rep.Diagnostics, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		s := testWorkspace(t, nil)
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{filepath.Join(s.Root, "none.cpp")}, checkOptions{})
		assert.Equal(t, exitUsage, code)
	})

	t.Run("no files after excludes", func(t *testing.T) {
		s := testWorkspace(t, map[string]string{"main.cpp": mainText})
		var stdout, stderr bytes.Buffer
		code := runCheck(context.Background(), &stdout, &stderr, s, cfg,
			[]string{s.Root + "/..."}, checkOptions{exclude: []string{"*.cpp"}})
		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr.String(), "no files")
	})
}

func TestRunScripts(t *testing.T) {
	cfg := testConfig(t)
	s := testWorkspace(t, map[string]string{
		"main.cpp": mainText + "SCRIPT:5,Other\nincludescript 9\nENDSCRIPT\n",
		"lib.cpp":  libText,
	})
	main := filepath.Join(s.Root, "main.cpp")

	t.Run("table", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		require.NoError(t, runScripts(&stdout, &stderr, s, cfg, main, false))
		lines := bytes.Split(bytes.TrimSpace(stdout.Bytes()), []byte("\n"))
		require.Len(t, lines, 3)
		assert.Contains(t, string(lines[0]), "Main")
		assert.Contains(t, string(lines[1]), "Other")
		assert.Contains(t, string(lines[2]), "Lib")
		assert.Contains(t, stderr.String(), "[dangling-include]")
	})

	t.Run("json", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		require.NoError(t, runScripts(&stdout, &stderr, s, cfg, main, true))
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
		require.Len(t, rows, 3)
		assert.Equal(t, "1", rows[0]["id"])
		assert.Equal(t, "script", rows[0]["kind"])
		assert.Equal(t, []any{float64(2)}, rows[0]["includes"])
		assert.Equal(t, float64(1), rows[0]["line"])
		assert.Equal(t, "Lib", rows[2]["name"])
	})
}

func TestRunClassify(t *testing.T) {
	s := testWorkspace(t, map[string]string{"main.cpp": mainText})
	path := filepath.Join(s.Root, "main.cpp")

	var out bytes.Buffer
	require.NoError(t, runClassify(&out, path, "2:9", false))
	assert.Equal(t, "parserFunction\tS.GetField\nin SCRIPT:1,Main\n", out.String())

	out.Reset()
	require.NoError(t, runClassify(&out, path, "3:15", true))
	var res map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "includeScript", res["kind"])
	assert.Equal(t, "2", res["text"])

	assert.Error(t, runClassify(&out, path, "nope", false))
	assert.Error(t, runClassify(&out, filepath.Join(s.Root, "none.cpp"), "1:1", false))
}

func TestParseLineCol(t *testing.T) {
	tests := []struct {
		in        string
		line, col int
		wantErr   bool
	}{
		{in: "1:1", line: 0, col: 0},
		{in: "12:8", line: 11, col: 7},
		{in: "0:1", wantErr: true},
		{in: "1:0", wantErr: true},
		{in: "a:1", wantErr: true},
		{in: "12", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pos, err := parseLineCol(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.line, pos.Line)
			assert.Equal(t, tt.col, pos.Character)
		})
	}
}

func TestIndexAndLookup(t *testing.T) {
	cfg := testConfig(t)
	s := testWorkspace(t, map[string]string{
		"main.cpp": mainText,
		"lib.cpp":  libText + "INSERTINTOSCRIPT:2,AfterLoad\nz = 2;\nENDSCRIPT\n",
	})
	db := filepath.Join(t.TempDir(), "scripts.db")
	ctx := context.Background()

	var msg bytes.Buffer
	require.NoError(t, runIndex(ctx, &msg, s, cfg, indexOptions{db: db}))
	assert.Contains(t, msg.String(), "indexed 3 blocks")

	var out bytes.Buffer
	require.NoError(t, runLookup(ctx, &out, indexOptions{db: db, lookup: 2}))
	text := out.String()
	assert.Contains(t, text, "script\t2\tLib\t"+filepath.Join(s.Root, "lib.cpp")+":1\n")
	assert.Contains(t, text, "insertion\t2\tAfterLoad\t")
	assert.Contains(t, text, "included by\t1\tMain\t"+filepath.Join(s.Root, "main.cpp")+":3\n")

	err := runLookup(ctx, &out, indexOptions{db: db, lookup: 42})
	assert.ErrorContains(t, err, "script 42 is not defined")

	err = runLookup(ctx, &out, indexOptions{db: filepath.Join(t.TempDir(), "none.db"), lookup: 1})
	assert.ErrorContains(t, err, "no index")
}
