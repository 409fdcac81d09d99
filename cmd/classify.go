// Copyright © 2026 The futurec authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/document"
)

// classifyResult is the output of "futurec classify".
type classifyResult struct {
	Kind      analysis.CursorKind `json:"kind"`
	Text      string              `json:"text"`
	Namespace string              `json:"namespace,omitempty"`
	Script    string              `json:"script,omitempty"`
}

// ClassifyCommand creates the "classify" cobra command.
func ClassifyCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [flags] FILE LINE:COL",
		Short: "Classify the token under a cursor position",
		Long: `Classify the token under a cursor position the way the language
server does for hover and completion.

LINE and COL are 1-based. The kind is one of variable, userFunction,
parserFunction, includeScript, undefined or error.

Examples:
  futurec classify main.cpp 12:8
  futurec classify --json main.cpp 3:15`,
		Args: cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			if err := runClassify(os.Stdout, args[0], args[1], asJSON); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitUsage)
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the classification as JSON.")
	return cmd
}

func runClassify(w io.Writer, path, at string, asJSON bool) error {
	pos, err := parseLineCol(at)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return err
	}
	doc := document.New(document.URIFromPath(path), string(data))
	info := analysis.Classify(doc, pos)

	res := classifyResult{Kind: info.Kind, Text: info.Text, Namespace: info.Namespace}
	if offset, ok := doc.OffsetAt(pos); ok {
		if sc := analysis.ScriptAt(analysis.ScanScripts(doc), offset); sc != nil {
			res.Script = sc.String()
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	text := res.Text
	if res.Namespace != "" {
		text = res.Namespace + "." + text
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\n", res.Kind, text); err != nil {
		return err
	}
	if res.Script != "" {
		_, err = fmt.Fprintf(w, "in %s\n", res.Script)
	}
	return err
}

// parseLineCol parses a 1-based "LINE:COL" argument.
func parseLineCol(s string) (document.Position, error) {
	lineText, colText, ok := strings.Cut(s, ":")
	if !ok {
		return document.Position{}, fmt.Errorf("invalid position %q: want LINE:COL", s)
	}
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 1 {
		return document.Position{}, fmt.Errorf("invalid line in %q", s)
	}
	col, err := strconv.Atoi(colText)
	if err != nil || col < 1 {
		return document.Position{}, fmt.Errorf("invalid column in %q", s)
	}
	return document.Position{Line: line - 1, Character: col - 1}, nil
}

func init() {
	rootCmd.AddCommand(ClassifyCommand())
}
