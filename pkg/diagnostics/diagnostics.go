// Package diagnostics defines the finding and report types shared by every
// check: a stable code, an ordered severity, a human message, and optional
// location and fix-hint information.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Severity classifies how serious a finding is. Error sorts before Warning,
// which sorts before Note.
type Severity uint8

const (
	// SeverityNote is informational / best practice.
	SeverityNote Severity = iota
	// SeverityWarning should be fixed.
	SeverityWarning
	// SeverityError must be fixed; its presence fails CI.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	}
	return "unknown"
}

// MarshalJSON serializes the severity as its lowercase name. The names are a
// compatibility contract for downstream CI tooling.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity name produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "note":
		*s = SeverityNote
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Location points at the file (and optionally line) a finding refers to.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// Finding is one reported issue. The code uniquely identifies the check that
// produced it and never changes meaning across releases.
type Finding struct {
	Code     string    `json:"code"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
	FixHint  string    `json:"fix_hint,omitempty"`
}

// NewFinding creates a finding without location information.
func NewFinding(code string, severity Severity, message string) Finding {
	return Finding{Code: code, Severity: severity, Message: message}
}

// WithFile attaches a file location to the finding.
func (f Finding) WithFile(file string) Finding {
	f.Location = &Location{File: file}
	return f
}

// WithLine attaches a file and 1-indexed line location to the finding.
func (f Finding) WithLine(file string, line int) Finding {
	f.Location = &Location{File: file, Line: line}
	return f
}

// WithHint attaches a remediation hint to the finding.
func (f Finding) WithHint(hint string) Finding {
	f.FixHint = hint
	return f
}

// Summary counts findings per severity.
type Summary struct {
	Errors   int `json:"error_count"`
	Warnings int `json:"warning_count"`
	Notes    int `json:"note_count"`
}

// Report is the final ordered aggregate of one run.
type Report struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

// NewReport sorts the findings into the canonical order and computes the
// summary. Ordering: severity descending, then code ascending; the sort is
// stable so findings sharing a code keep their emission order. The result is
// a pure function of the finding multiset, so identical inputs serialize
// byte-identically no matter which check finished first.
func NewReport(findings []Finding) *Report {
	ordered := make([]Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Severity != ordered[j].Severity {
			return ordered[i].Severity > ordered[j].Severity
		}
		return ordered[i].Code < ordered[j].Code
	})

	var summary Summary
	for _, f := range ordered {
		switch f.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		case SeverityNote:
			summary.Notes++
		}
	}

	return &Report{Findings: ordered, Summary: summary}
}

// HasErrors reports whether any Error-severity finding is present. Drives the
// process exit code.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Len returns the number of findings in the report.
func (r *Report) Len() int {
	return len(r.Findings)
}
