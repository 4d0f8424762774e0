// Package checks holds the check catalog and the executor that runs it. A
// check is a pure function of the project context and the injected lookup
// clients: it reads nothing else and reports exclusively through its returned
// findings, which is what lets the executor fan checks out in parallel
// without locks.
package checks

import (
	"context"

	"github.com/cratedoctor/cratedoctor/pkg/audit"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/project"
	"github.com/cratedoctor/cratedoctor/pkg/registry"
)

// Kind classifies what a check touches, which decides whether the executor
// grants it an external-call timeout.
type Kind int

const (
	// KindPure checks only consume the in-memory project context.
	KindPure Kind = iota
	// KindFileScan checks read project files from disk.
	KindFileScan
	// KindNetwork checks call a remote service.
	KindNetwork
	// KindSubprocess checks invoke an external tool.
	KindSubprocess
)

func (k Kind) String() string {
	switch k {
	case KindPure:
		return "pure"
	case KindFileScan:
		return "file-scan"
	case KindNetwork:
		return "network"
	case KindSubprocess:
		return "subprocess"
	}
	return "unknown"
}

// External reports whether the kind involves a suspension point outside the
// process.
func (k Kind) External() bool {
	return k == KindNetwork || k == KindSubprocess
}

// Descriptor is the static registry entry for one check. Codes are globally
// unique and never reused with a different meaning: external tooling keys off
// them.
type Descriptor struct {
	Code     string
	Name     string
	Category string
	Kind     Kind
	Default  diagnostics.Severity
}

// Clients bundles the substitutable external collaborators and the run-scoped
// source cache threaded through to file-scanning checks.
type Clients struct {
	Registry registry.Client
	Audit    audit.Runner
	Sources  *project.SourceCache
}

// RunFunc is the callable behind a descriptor. It may return no findings.
type RunFunc func(ctx context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding

// Check pairs a descriptor with its implementation.
type Check struct {
	Descriptor
	Run RunFunc
}
