// Copyright © 2026 The futurec authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/lint"
	"github.com/futurec/futurec/parser/rdparser"
)

type checkOptions struct {
	json    bool
	strict  bool
	exclude []string
}

// CheckCommand creates the "check" cobra command. Embedders can pass
// WithCatalog to check against their own parser function catalog.
func CheckCommand(opts ...Option) *cobra.Command {
	cfg := newConfig(opts)
	var co checkOptions

	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Check every script reachable from the given files",
		Long: `Check every script reachable from the given host files.

Each file is a focal document: its own blocks are checked together with
every script they reach through includescript, wherever it lives under the
workspace root. Scripts are parsed with workspace-wide checks enabled
(dangling includes, duplicate ids, unknown hook targets) and only errors
are reported. With --strict warnings are reported too and fail the check.

A path ending in "/..." expands to every host file below that directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Examples:
  futurec check main.cpp                  Check main.cpp and its includes
  futurec check --root ../Standard a.cpp  Resolve includes in another tree
  futurec check --json ./...              Check every host file, JSON output
  futurec check --strict main.cpp         Report warnings as well`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsFrom(viper.GetViper())
			code := runCheck(cmd.Context(), os.Stdout, os.Stderr, s, &cfg, args, co)
			if code != exitOK {
				os.Exit(code)
			}
		},
	}

	cmd.Flags().BoolVar(&co.json, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().BoolVar(&co.strict, "strict", false,
		"Report warnings as well as errors and fail on them.")
	cmd.Flags().StringArrayVar(&co.exclude, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// runCheck checks each file and writes the findings. It returns the
// process exit code.
func runCheck(ctx context.Context, stdout, stderr io.Writer, s settings, cfg *cmdConfig, args []string, co checkOptions) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CheckTimeout)
		defer cancel()
	}

	files, err := expandArgs(args, s.Extensions, co.exclude)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "futurec check: no files to check")
		return exitUsage
	}
	cat, err := cfg.resolveCatalog(s)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	ws, err := loadWorkspace(s, cat, files...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	l := &lint.Linter{Workers: s.Workers}
	var all []diagnostic.Diagnostic
	seen := make(map[string]bool)
	for _, path := range files {
		uri, err := fileURI(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		var diags []diagnostic.Diagnostic
		if co.strict {
			diags, err = checkStrict(ws, uri)
		} else {
			diags, err = l.CheckAll(ctx, ws, uri)
		}
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			return exitUsage
		}
		// Scripts reachable from several files are reported once.
		for _, d := range diags {
			if key := d.String(); !seen[key] {
				seen[key] = true
				all = append(all, d)
			}
		}
	}

	if co.json {
		if err := lint.FormatJSON(stdout, all); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	} else if len(all) > 0 {
		_ = renderDiagnostics(stderr, all)
		fmt.Fprintf(stderr, "\n%s\n", lint.Summary(all))
	}
	if len(all) > 0 {
		return exitProblems
	}
	return exitOK
}

// checkStrict returns the errors and warnings of every script reachable
// from uri, in resolver order.
func checkStrict(ws *analysis.Workspace, uri string) ([]diagnostic.Diagnostic, error) {
	res, err := analysis.AllScripts(ws, uri)
	if err != nil {
		return nil, err
	}
	var all []diagnostic.Diagnostic
	for _, sc := range res.Scripts {
		r, err := rdparser.Parse(ws, sc, true)
		if err != nil {
			return nil, err
		}
		all = append(all, r.Diagnostics...)
	}
	return lint.FilterSeverity(all, diagnostic.SeverityWarning), nil
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
