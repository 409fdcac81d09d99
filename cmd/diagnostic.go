// Copyright © 2026 The futurec authors

package cmd

import (
	"io"

	"github.com/futurec/futurec/diagnostic"
)

// Exit codes shared by the checking commands.
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(colorFlag)
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderDiagnostics renders diagnostics with source snippets.
func renderDiagnostics(w io.Writer, diags []diagnostic.Diagnostic) error {
	return newRenderer().RenderAll(w, diags)
}
