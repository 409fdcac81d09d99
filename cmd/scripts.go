// Copyright © 2026 The futurec authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// scriptRow is one line of "futurec scripts" output.
type scriptRow struct {
	Kind     analysis.Kind `json:"kind"`
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Line     int           `json:"line"`
	Includes []int         `json:"includes,omitempty"`
	Hooks    []string      `json:"hooks,omitempty"`
}

// ScriptsCommand creates the "scripts" cobra command.
func ScriptsCommand(opts ...Option) *cobra.Command {
	cfg := newConfig(opts)
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scripts [flags] FILE",
		Short: "List the scripts reachable from a file",
		Long: `List the scripts reachable from a host file.

The file's own blocks come first in textual order, followed by the scripts
they include, transitively, in discovery order. Includes of scripts that
are not defined anywhere under the workspace root are reported on stderr.

Examples:
  futurec scripts main.cpp
  futurec scripts --json --root ../Standard main.cpp`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := settingsFrom(viper.GetViper())
			if err := runScripts(os.Stdout, os.Stderr, s, &cfg, args[0], asJSON); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitUsage)
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output scripts as JSON.")
	return cmd
}

func runScripts(stdout, stderr io.Writer, s settings, cfg *cmdConfig, path string, asJSON bool) error {
	cat, err := cfg.resolveCatalog(s)
	if err != nil {
		return err
	}
	ws, err := loadWorkspace(s, cat, path)
	if err != nil {
		return err
	}
	uri, err := fileURI(path)
	if err != nil {
		return err
	}
	res, err := analysis.AllScripts(ws, uri)
	if err != nil {
		return err
	}

	rows := make([]scriptRow, 0, len(res.Scripts))
	for _, sc := range res.Scripts {
		rows = append(rows, newScriptRow(sc))
	}
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
	} else if err := writeScriptTable(stdout, rows); err != nil {
		return err
	}
	if len(res.Diagnostics) > 0 {
		return renderDiagnostics(stderr, res.Diagnostics)
	}
	return nil
}

func newScriptRow(sc *analysis.Script) scriptRow {
	row := scriptRow{
		Kind: sc.Kind,
		ID:   sc.IDText,
		Name: sc.Name,
		Path: document.PathFromURI(sc.URI),
		Line: sc.HeaderRange.Start.Line + 1,
	}
	for _, inc := range sc.Includes {
		if inc.Valid {
			row.Includes = append(row.Includes, inc.ID)
		}
	}
	for _, h := range sc.Hooks {
		if !h.Malformed {
			row.Hooks = append(row.Hooks, h.Name)
		}
	}
	return row
}

func writeScriptTable(w io.Writer, rows []scriptRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s:%d\n", r.Kind, r.ID, r.Name, r.Path, r.Line)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(ScriptsCommand())
}
