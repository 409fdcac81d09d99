// Copyright © 2026 The futurec authors

// Package help renders parser function catalog documentation for
// terminals and for editor hovers.
package help

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/futurec/futurec/analysis"
)

// Width is the column docs are wrapped to.
const Width = 72

// MissingDoc describes a catalog entry with no documentation.
type MissingDoc struct {
	// Kind is "namespace" or "function".
	Kind string
	// Name is the qualified name (e.g. "S.GetField").
	Name string
}

// CheckMissing reports namespaces and functions of c without docs, sorted
// by name.
func CheckMissing(c *analysis.Catalog) []MissingDoc {
	if c == nil {
		return nil
	}
	var missing []MissingDoc
	for _, ns := range sortedNamespaces(c) {
		if strings.TrimSpace(ns.Doc) == "" {
			missing = append(missing, MissingDoc{Kind: "namespace", Name: ns.Name})
		}
		for _, name := range ns.Names() {
			fn, _ := ns.Function(name)
			if strings.TrimSpace(fn.Doc) == "" {
				missing = append(missing, MissingDoc{Kind: "function", Name: ns.Name + "." + name})
			}
		}
	}
	return missing
}

func sortedNamespaces(c *analysis.Catalog) []*analysis.Namespace {
	out := make([]*analysis.Namespace, len(c.Namespaces))
	copy(out, c.Namespaces)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RenderNamespaceList writes one line per namespace with the first line
// of its doc and its function count.
func RenderNamespaceList(w io.Writer, c *analysis.Catalog) error {
	if c == nil {
		return nil
	}
	for _, ns := range sortedNamespaces(c) {
		line := fmt.Sprintf("  %-12s", ns.Name)
		if first := firstLine(ns.Doc); first != "" {
			line += "  " + first
		}
		if n := len(ns.Functions); n > 0 {
			line += fmt.Sprintf(" (%d functions)", n)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderNamespace writes the documentation of every function in the
// namespace called name.
func RenderNamespace(w io.Writer, c *analysis.Catalog, name string) error {
	ns := c.Namespace(name)
	if ns == nil {
		return fmt.Errorf("no namespace: %q", name)
	}
	if _, err := fmt.Fprintf(w, "namespace %s\n", ns.Name); err != nil {
		return err
	}
	if doc := cleanDoc(ns.Doc); doc != "" {
		if _, err := fmt.Fprintln(w, doc); err != nil {
			return err
		}
	}
	for _, fname := range ns.Names() {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		fn, _ := ns.Function(fname)
		if err := renderFunction(w, ns.Name, fn); err != nil {
			return fmt.Errorf("function %s: %w", fname, err)
		}
	}
	return nil
}

// RenderFunction writes the documentation of a qualified function name
// such as "S.GetField".
func RenderFunction(w io.Writer, c *analysis.Catalog, qualified string) error {
	ns, name, ok := strings.Cut(qualified, ".")
	if !ok {
		return RenderNamespace(w, c, qualified)
	}
	fn, found := c.Lookup(ns, name)
	if !found {
		return fmt.Errorf("no function: %q", qualified)
	}
	return renderFunction(w, ns, fn)
}

func renderFunction(w io.Writer, ns string, fn *analysis.Function) error {
	if _, err := fmt.Fprintln(w, fn.Signature(ns)); err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	if doc := cleanDoc(fn.Doc); doc != "" {
		if _, err := fmt.Fprintln(w, doc); err != nil {
			return err
		}
	}
	for _, p := range fn.Params {
		if p.Doc == "" {
			continue
		}
		line := indent.String(wordwrap.String(p.Name+": "+strings.TrimSpace(p.Doc), Width-4), 4)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders a function for an editor hover: the signature in a
// code block followed by the wrapped doc and the parameter docs.
func Markdown(ns string, fn *analysis.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "```futurec\n%s\n```", fn.Signature(ns))
	if doc := strings.TrimSpace(fn.Doc); doc != "" {
		fmt.Fprintf(&b, "\n\n%s", wordwrap.String(dedentDoc(doc), Width))
	}
	var params []string
	for _, p := range fn.Params {
		if p.Doc != "" {
			params = append(params, fmt.Sprintf("- `%s`: %s", p.Name, strings.TrimSpace(p.Doc)))
		}
	}
	if len(params) > 0 {
		fmt.Fprintf(&b, "\n\n%s", strings.Join(params, "\n"))
	}
	return b.String()
}

// NamespaceMarkdown renders a namespace for an editor hover.
func NamespaceMarkdown(ns *analysis.Namespace) string {
	s := fmt.Sprintf("**namespace** `%s` (%d functions)", ns.Name, len(ns.Functions))
	if doc := strings.TrimSpace(ns.Doc); doc != "" {
		s += "\n\n" + wordwrap.String(dedentDoc(doc), Width)
	}
	return s
}

func firstLine(doc string) string {
	first := strings.SplitN(strings.TrimSpace(doc), "\n", 2)[0]
	return strings.TrimSpace(first)
}

func cleanDoc(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), Width), 2)
	return strings.TrimSuffix(doc, "\n")
}

// dedentDoc removes common leading whitespace from all non-empty lines
// after the first. Tabs are normalized to spaces.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			lines[i] = ""
		case minWS > 0 && len(lines[i]) >= minWS:
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
