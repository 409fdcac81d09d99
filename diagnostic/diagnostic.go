// Copyright © 2026 The futurec authors

// Package diagnostic defines the diagnostic values reported by the script
// parser and resolver, and renders them as Rust-style annotated source
// snippets for CLI output.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/futurec/futurec/document"
)

// Severity indicates the severity level of a diagnostic. The numeric
// values match the language server protocol.
type Severity int

const (
	severityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInformation
	case "hint":
		*s = SeverityHint
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Diagnostic is a single finding anchored to a range of a document.
type Diagnostic struct {
	URI      string         `json:"uri"`
	Range    document.Range `json:"range"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	// Code names the check that produced the finding (e.g. "dangling-include").
	Code string `json:"code,omitempty"`
	// Notes are optional hint lines shown after the source snippet.
	Notes []string `json:"notes,omitempty"`
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s:%s: %s: %s", document.PathFromURI(d.URI), d.Range.Start, d.Severity, d.Message)
	if d.Code != "" {
		s += " (" + d.Code + ")"
	}
	return s
}

// Sort orders diagnostics by start position. Diagnostics at the same
// position keep their relative order.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Range.Start.Less(diags[j].Range.Start)
	})
}

// Count returns the number of diagnostics with severity sev.
func Count(diags []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
