package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cratedoctor/cratedoctor/pkg/audit"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

const lockFileName = "Cargo.lock"

var checkVulnerabilities = Check{
	Descriptor: Descriptor{
		Code:     "SEC001",
		Name:     "known vulnerability",
		Category: "security",
		Kind:     KindSubprocess,
		Default:  diagnostics.SeverityError,
	},
	Run: runVulnerabilityAudit,
}

// runVulnerabilityAudit runs the external audit once for the whole project.
// Every advisory becomes an Error finding; a failed run degrades to exactly
// one Warning whose code names the failure mode, and is never retried.
func runVulnerabilityAudit(ctx context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding {
	if clients.Audit == nil {
		return nil
	}

	report, err := clients.Audit.Run(ctx, pctx.Root)
	if err != nil {
		return []diagnostics.Finding{auditFailureFinding(err)}
	}

	var findings []diagnostics.Finding
	for _, vuln := range report.Vulnerabilities {
		f := diagnostics.NewFinding("SEC001", diagnostics.SeverityError,
			fmt.Sprintf("Vulnerability %s in dependency %q: %s.", vuln.ID, vuln.Package, vuln.Title)).
			WithFile(lockFileName)
		if len(vuln.Patched) > 0 {
			f = f.WithHint(fmt.Sprintf("Upgrade %s to a patched version: %s.", vuln.Package, strings.Join(vuln.Patched, ", ")))
		} else {
			f = f.WithHint(fmt.Sprintf("No patched version of %s is published yet; consider replacing it.", vuln.Package))
		}
		findings = append(findings, f)
	}
	return findings
}

func auditFailureFinding(err error) diagnostics.Finding {
	code := "AUD001"
	hint := "Inspect the cargo audit output manually."
	var auditErr *audit.Error
	if errors.As(err, &auditErr) {
		switch auditErr.Kind {
		case audit.ToolNotFound:
			code = "AUD004"
			hint = "Install it with cargo install cargo-audit."
		case audit.Timeout:
			code = "AUD002"
			hint = "Re-run with a larger --timeout, or run cargo audit manually."
		case audit.Unparseable:
			code = "AUD003"
			hint = "Upgrade cargo-audit; its JSON schema may have changed."
		}
	}
	return diagnostics.NewFinding(code, diagnostics.SeverityWarning,
		fmt.Sprintf("Security audit could not complete: %v.", err)).
		WithFile(lockFileName).
		WithHint(hint)
}
