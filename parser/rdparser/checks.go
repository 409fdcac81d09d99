// Copyright © 2026 The futurec authors

package rdparser

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/diagnostic"
	"github.com/futurec/futurec/document"
)

// Check is a single script check run after the token walk.
type Check struct {
	// Name is the diagnostic code of the findings (e.g. "arg-count").
	Name string

	// Doc is a human-readable description.
	Doc string

	// Severity is the default severity of the findings.
	Severity diagnostic.Severity

	// Strict checks validate references across the workspace and only
	// run in strict mode.
	Strict bool

	// Run executes the check. It should call pass.Report for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running check.
type Pass struct {
	Check     *Check
	Workspace *analysis.Workspace
	Document  *document.Document
	Script    *analysis.Script
	Result    *ParseResult

	diagnostics []diagnostic.Diagnostic
}

// Report records a finding. URI, code and severity default to the
// script's document and the running check.
func (p *Pass) Report(d diagnostic.Diagnostic) {
	if d.URI == "" {
		d.URI = p.Script.URI
	}
	if d.Code == "" {
		d.Code = p.Check.Name
	}
	if d.Severity == 0 {
		d.Severity = p.Check.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// Reportf reports a finding covering r.
func (p *Pass) Reportf(r document.Range, format string, args ...interface{}) {
	p.Report(diagnostic.Diagnostic{Range: r, Message: fmt.Sprintf(format, args...)})
}

// Index returns the workspace index.
func (p *Pass) Index() (*analysis.Index, error) {
	return p.Workspace.Index()
}

// Checks returns the built-in checks in the order they run.
func Checks() []*Check {
	return []*Check{
		CheckMissingEndScript,
		CheckScriptHeader,
		CheckScriptName,
		CheckUnknownFunction,
		CheckArgCount,
		CheckIncludeArg,
		CheckHookMarker,
		CheckDanglingInclude,
		CheckDuplicateScript,
		CheckUnknownHookTarget,
		CheckUnknownHook,
	}
}

var CheckMissingEndScript = &Check{
	Name:     "missing-endscript",
	Doc:      "Report script headers without a matching ENDSCRIPT line.",
	Severity: diagnostic.SeverityError,
	Run: func(pass *Pass) error {
		if !pass.Script.Terminated {
			pass.Reportf(pass.Script.HeaderRange, "%s has no matching %s", pass.Script, analysis.EndScript)
		}
		return nil
	},
}

var CheckScriptHeader = &Check{
	Name:     "script-header",
	Doc:      "Report headers whose script number is not a number.",
	Severity: diagnostic.SeverityError,
	Run: func(pass *Pass) error {
		s := pass.Script
		switch {
		case s.IDText == "":
			pass.Reportf(s.HeaderRange, "missing script number")
		case s.ID < 0:
			pass.Reportf(s.HeaderRange, "invalid script number %q", s.IDText)
		}
		return nil
	},
}

var CheckScriptName = &Check{
	Name:     "script-name",
	Doc:      "Warn about headers without a script or hook name.",
	Severity: diagnostic.SeverityWarning,
	Run: func(pass *Pass) error {
		s := pass.Script
		if s.Name != "" {
			return nil
		}
		if s.Kind == analysis.KindInsertion {
			pass.Reportf(s.HeaderRange, "insertion block has no hook name")
		} else {
			pass.Reportf(s.HeaderRange, "script header has no name")
		}
		return nil
	},
}

var CheckUnknownFunction = &Check{
	Name:     "unknown-function",
	Doc:      "Report calls of functions missing from a closed catalog namespace.",
	Severity: diagnostic.SeverityError,
	Run: func(pass *Pass) error {
		for _, call := range pass.Result.Calls {
			ns := pass.Workspace.Catalog.Namespace(call.Namespace)
			if ns == nil || !ns.Closed {
				continue
			}
			if _, ok := ns.Function(call.Name); ok {
				continue
			}
			d := diagnostic.Diagnostic{
				Range:   call.NameRange,
				Message: fmt.Sprintf("unknown function %s.%s", call.Namespace, call.Name),
			}
			if best := closestName(call.Name, ns.Names()); best != "" {
				d.Notes = append(d.Notes, fmt.Sprintf("did you mean %s.%s?", call.Namespace, best))
			}
			pass.Report(d)
		}
		return nil
	},
}

// closestName returns the candidate most similar to name, or "".
func closestName(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

var CheckArgCount = &Check{
	Name:     "arg-count",
	Doc:      "Warn about parser function calls whose argument count does not match the catalog signature.",
	Severity: diagnostic.SeverityWarning,
	Run: func(pass *Pass) error {
		for _, call := range pass.Result.Calls {
			if !call.Closed() {
				continue
			}
			fn, ok := pass.Workspace.Catalog.Lookup(call.Namespace, call.Name)
			if !ok || fn.AcceptsArgs(call.Args) {
				continue
			}
			pass.Report(diagnostic.Diagnostic{
				Range:   call.NameRange,
				Message: fmt.Sprintf("%s.%s expects %s, got %d", call.Namespace, call.Name, arityText(fn), call.Args),
				Notes:   []string{fn.Signature(call.Namespace)},
			})
		}
		return nil
	},
}

func arityText(fn *analysis.Function) string {
	lo, hi := fn.Arity()
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %s", plural(lo, "argument"))
	case lo == hi:
		return plural(lo, "argument")
	}
	return fmt.Sprintf("%d to %d arguments", lo, hi)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

var CheckIncludeArg = &Check{
	Name:     "include-arg",
	Doc:      "Report includescript statements without a numeric script id.",
	Severity: diagnostic.SeverityError,
	Run: func(pass *Pass) error {
		for _, inc := range pass.Script.Includes {
			if inc.Valid {
				continue
			}
			if inc.Arg == "" {
				pass.Reportf(inc.Range, "%s expects a script number", analysis.IncludeKeyword)
			} else {
				pass.Reportf(inc.Range, "%s expects a script number, found %q", analysis.IncludeKeyword, inc.Arg)
			}
		}
		return nil
	},
}

var CheckHookMarker = &Check{
	Name:     "hook-marker",
	Doc:      "Warn about malformed, misnumbered or duplicate //ADDHOOK markers.",
	Severity: diagnostic.SeverityWarning,
	Run: func(pass *Pass) error {
		s := pass.Script
		seen := make(map[string]bool)
		for _, h := range s.Hooks {
			switch {
			case h.Malformed:
				pass.Reportf(h.Range, "malformed hook marker %q: expected //ADDHOOK-<number>-<name>", h.Text)
			case s.Kind == analysis.KindScript && s.ID >= 0 && h.Number != s.ID:
				pass.Reportf(h.Range, "hook %s is numbered %d but declared in script %d", h.Name, h.Number, s.ID)
			case seen[h.Name]:
				pass.Reportf(h.Range, "duplicate hook %s", h.Name)
			}
			seen[h.Name] = true
		}
		return nil
	},
}

var CheckDanglingInclude = &Check{
	Name:     analysis.CodeDanglingInclude,
	Doc:      "Report includescript statements naming a script that no block defines.",
	Severity: diagnostic.SeverityError,
	Strict:   true,
	Run: func(pass *Pass) error {
		if !hasValidInclude(pass.Script) {
			return nil
		}
		ix, err := pass.Index()
		if err != nil {
			return err
		}
		for _, inc := range pass.Script.Includes {
			if inc.Valid && ix.Lookup(inc.ID) == nil {
				pass.Report(analysis.DanglingInclude(pass.Script, inc))
			}
		}
		return nil
	},
}

func hasValidInclude(s *analysis.Script) bool {
	for _, inc := range s.Includes {
		if inc.Valid {
			return true
		}
	}
	return false
}

var CheckDuplicateScript = &Check{
	Name:     "duplicate-script",
	Doc:      "Report script numbers defined by more than one block in the workspace.",
	Severity: diagnostic.SeverityError,
	Strict:   true,
	Run: func(pass *Pass) error {
		s := pass.Script
		if s.Kind != analysis.KindScript || s.ID < 0 {
			return nil
		}
		ix, err := pass.Index()
		if err != nil {
			return err
		}
		defs := ix.Definitions(s.ID)
		if len(defs) < 2 {
			return nil
		}
		d := diagnostic.Diagnostic{
			Range:   s.HeaderRange,
			Message: fmt.Sprintf("script %d is defined %d times", s.ID, len(defs)),
		}
		for _, other := range defs {
			if other == s {
				continue
			}
			d.Notes = append(d.Notes, fmt.Sprintf("also defined at %s:%s",
				document.PathFromURI(other.URI), other.HeaderRange.Start))
		}
		pass.Report(d)
		return nil
	},
}

var CheckUnknownHookTarget = &Check{
	Name:     "unknown-hook-target",
	Doc:      "Report insertion blocks targeting a script that does not exist.",
	Severity: diagnostic.SeverityError,
	Strict:   true,
	Run: func(pass *Pass) error {
		s := pass.Script
		if s.Kind != analysis.KindInsertion || s.ID < 0 {
			return nil
		}
		ix, err := pass.Index()
		if err != nil {
			return err
		}
		if ix.Lookup(s.ID) == nil {
			pass.Reportf(s.HeaderRange, "%s%d: no script with this number exists", analysis.InsertionHeader, s.ID)
		}
		return nil
	},
}

var CheckUnknownHook = &Check{
	Name:     "unknown-hook",
	Doc:      "Warn about insertion blocks naming a hook the target script does not declare.",
	Severity: diagnostic.SeverityWarning,
	Strict:   true,
	Run: func(pass *Pass) error {
		s := pass.Script
		if s.Kind != analysis.KindInsertion || s.ID < 0 || s.Name == "" {
			return nil
		}
		ix, err := pass.Index()
		if err != nil {
			return err
		}
		target := ix.Lookup(s.ID)
		if target == nil {
			return nil
		}
		for _, h := range target.Hooks {
			if !h.Malformed && h.Name == s.Name {
				return nil
			}
		}
		pass.Reportf(s.HeaderRange, "script %d declares no hook %s", s.ID, s.Name)
		return nil
	},
}
