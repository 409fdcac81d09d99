// Copyright © 2026 The futurec authors

// Package lint checks whole script graphs.
//
// A Linter resolves every script reachable from a focal document, parses
// each one in strict mode and keeps the errors. This is the expensive,
// explicit "check everything" pass; LintScript is the cheap per-edit
// pass over a single block.
package lint

import (
	"context"
	"encoding/json"
	"io"
	"runtime"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/parser/rdparser"
)

// TracerName names the tracer used for lint spans.
const TracerName = "github.com/futurec/futurec/lint"

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// Linter runs whole-graph checks.
type Linter struct {
	// Workers bounds the number of scripts parsed concurrently. Zero
	// means runtime.NumCPU().
	Workers int

	// Progress, when set, is called after each script is parsed. Calls
	// are serialized.
	Progress func(done, total int, s *analysis.Script)
}

func (l *Linter) workers() int {
	if l.Workers > 0 {
		return l.Workers
	}
	return runtime.NumCPU()
}

// CheckAll returns the errors of every script reachable from the document
// at focalURI. Diagnostics follow the resolver's script order and each
// script's own diagnostic order. Only document read failures and
// cancellation of ctx are returned as errors.
func (l *Linter) CheckAll(ctx context.Context, ws *analysis.Workspace, focalURI string) ([]diagnostic.Diagnostic, error) {
	ctx, span := tracer().Start(ctx, "lint.CheckAll",
		trace.WithAttributes(semconv.CodeFilepath(document.PathFromURI(focalURI))))
	defer span.End()

	diags, err := l.checkAll(ctx, ws, focalURI)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("futurec.errors", len(diags)))
	return diags, nil
}

func (l *Linter) checkAll(ctx context.Context, ws *analysis.Workspace, focalURI string) ([]diagnostic.Diagnostic, error) {
	res, err := analysis.AllScripts(ws, focalURI)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("futurec.scripts", len(res.Scripts)))

	results := make([][]diagnostic.Diagnostic, len(res.Scripts))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, s := range res.Scripts {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := parseScript(gctx, ws, s, true)
			if err != nil {
				return err
			}
			results[i] = r.Diagnostics
			if l.Progress != nil {
				mu.Lock()
				done++
				l.Progress(done, len(res.Scripts), s)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []diagnostic.Diagnostic
	for _, diags := range results {
		all = append(all, diags...)
	}
	return FilterSeverity(all, diagnostic.SeverityError), nil
}

// LintScript parses a single block without workspace-wide checks. The
// result keeps diagnostics of every severity.
func (l *Linter) LintScript(ctx context.Context, ws *analysis.Workspace, s *analysis.Script) (*rdparser.ParseResult, error) {
	return parseScript(ctx, ws, s, false)
}

func parseScript(ctx context.Context, ws *analysis.Workspace, s *analysis.Script, strict bool) (*rdparser.ParseResult, error) {
	_, span := tracer().Start(ctx, "lint.ParseScript", trace.WithAttributes(
		semconv.CodeFilepath(document.PathFromURI(s.URI)),
		semconv.CodeLineNumber(s.HeaderRange.Start.Line+1),
		attribute.String("futurec.script", s.String()),
		attribute.Bool("futurec.strict", strict),
	))
	defer span.End()

	r, err := rdparser.Parse(ws, s, strict)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("futurec.diagnostics", len(r.Diagnostics)))
	return r, nil
}

// FilterSeverity returns the diagnostics at least as severe as level,
// preserving their order.
func FilterSeverity(diags []diagnostic.Diagnostic, level diagnostic.Severity) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range diags {
		if d.Severity != 0 && d.Severity <= level {
			out = append(out, d)
		}
	}
	return out
}

// Report is the JSON document written by FormatJSON.
type Report struct {
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
	Summary     map[string]int          `json:"summary"`
}

// FormatJSON writes diagnostics as JSON with a per-severity summary.
func FormatJSON(w io.Writer, diags []diagnostic.Diagnostic) error {
	rep := Report{
		Diagnostics: diags,
		Summary:     make(map[string]int),
	}
	if rep.Diagnostics == nil {
		rep.Diagnostics = []diagnostic.Diagnostic{}
	}
	for _, d := range diags {
		rep.Summary[d.Severity.String()]++
	}
	rep.Summary["total"] = len(diags)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// Summary formats a one-line count of errors and warnings.
func Summary(diags []diagnostic.Diagnostic) string {
	errs := diagnostic.Count(diags, diagnostic.SeverityError)
	warns := diagnostic.Count(diags, diagnostic.SeverityWarning)
	return pluralize(errs, "error") + ", " + pluralize(warns, "warning")
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
