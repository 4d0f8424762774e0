// Package audit runs the external cargo-audit tool against a project and
// parses its JSON report. The runner is an interface so the security check
// can be tested without the tool installed, and every failure is a typed
// Error the caller degrades to a single Warning finding.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cratedoctor/cratedoctor/pkg/logger"
)

// Runner executes a vulnerability audit for the whole project. Errors are
// always *Error.
type Runner interface {
	Run(ctx context.Context, projectRoot string) (*Report, error)
}

// Report is the parsed audit output.
type Report struct {
	Vulnerabilities []Vulnerability
}

// Vulnerability is one advisory affecting a dependency in the project graph.
type Vulnerability struct {
	Package  string
	ID       string
	Title    string
	Patched  []string
}

// ErrorKind distinguishes the failure modes of an audit run.
type ErrorKind int

const (
	// ToolNotFound means the audit tool is not installed or not on PATH.
	ToolNotFound ErrorKind = iota
	// ExecFailed means the tool exited non-zero without usable output.
	ExecFailed
	// Unparseable means the tool ran but its output was not valid JSON.
	Unparseable
	// Timeout means the run exceeded its time budget.
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case ToolNotFound:
		return "tool not found"
	case ExecFailed:
		return "execution failed"
	case Unparseable:
		return "unparseable output"
	case Timeout:
		return "timed out"
	}
	return "unknown"
}

// Error is the typed failure of an audit run.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cargo-audit %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("cargo-audit %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// CargoAudit invokes `cargo audit --json` in the project directory. Command
// can be overridden in tests.
type CargoAudit struct {
	Command string
}

// NewCargoAudit creates a runner using the cargo binary on PATH.
func NewCargoAudit() *CargoAudit {
	return &CargoAudit{Command: "cargo"}
}

// Run implements Runner. The subprocess is invoked once for the whole
// project and never retried.
func (a *CargoAudit) Run(ctx context.Context, projectRoot string) (*Report, error) {
	logger.Debugf("audit: running %s audit --json in %s", a.Command, projectRoot)

	cmd := exec.CommandContext(ctx, a.Command, "audit", "--json", "--quiet")
	cmd.Dir = projectRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, &Error{Kind: Timeout, Err: ctx.Err()}
	}
	if runErr != nil {
		var execErr *exec.Error
		if errors.As(runErr, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return nil, &Error{Kind: ToolNotFound, Err: runErr}
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &Error{Kind: ExecFailed, Err: runErr}
		}
		// cargo-audit exits non-zero when vulnerabilities are found, with the
		// report still on stdout. Only treat the exit as a failure when the
		// output is unusable.
		if report, err := parseReport(stdout.Bytes()); err == nil {
			return report, nil
		}
		return nil, &Error{Kind: ExecFailed, Err: fmt.Errorf("exit status %d: %s", exitErr.ExitCode(), firstLine(stderr.String()))}
	}

	report, err := parseReport(stdout.Bytes())
	if err != nil {
		return nil, &Error{Kind: Unparseable, Err: err}
	}
	return report, nil
}

// auditOutput mirrors the cargo-audit JSON schema, reduced to the fields the
// security check consumes.
type auditOutput struct {
	Vulnerabilities struct {
		List []struct {
			Advisory struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"advisory"`
			Package struct {
				Name string `json:"name"`
			} `json:"package"`
			Versions struct {
				Patched []string `json:"patched"`
			} `json:"versions"`
		} `json:"list"`
	} `json:"vulnerabilities"`
}

func parseReport(data []byte) (*Report, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty output")
	}
	var out auditOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	report := &Report{}
	for _, entry := range out.Vulnerabilities.List {
		report.Vulnerabilities = append(report.Vulnerabilities, Vulnerability{
			Package: entry.Package.Name,
			ID:      entry.Advisory.ID,
			Title:   entry.Advisory.Title,
			Patched: entry.Versions.Patched,
		})
	}
	return report, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
