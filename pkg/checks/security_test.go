package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedoctor/cratedoctor/pkg/audit"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
)

func TestVulnerabilitiesBecomeErrors(t *testing.T) {
	pctx := newProject(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
	})
	clients := newClients()
	clients.Audit = &stubAudit{report: &audit.Report{
		Vulnerabilities: []audit.Vulnerability{
			{Package: "smallstring", ID: "RUSTSEC-2024-0001", Title: "Buffer overflow", Patched: []string{">=0.3.2"}},
			{Package: "oldlock", ID: "RUSTSEC-2023-0099", Title: "Use after free"},
		},
	}}

	findings := runCheckFunc(t, checkVulnerabilities, pctx, clients)
	require.Len(t, findings, 2)

	assert.Equal(t, "SEC001", findings[0].Code)
	assert.Equal(t, diagnostics.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "RUSTSEC-2024-0001")
	assert.Contains(t, findings[0].FixHint, ">=0.3.2")
	assert.Equal(t, "Cargo.lock", findings[0].Location.File)

	assert.Contains(t, findings[1].FixHint, "No patched version")
}

func TestCleanAuditProducesNoFindings(t *testing.T) {
	pctx := newProject(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
	})
	clients := newClients()
	clients.Audit = &stubAudit{report: &audit.Report{}}

	assert.Empty(t, runCheckFunc(t, checkVulnerabilities, pctx, clients))
}

func TestAuditFailureDegradesToSingleWarning(t *testing.T) {
	cases := []struct {
		kind audit.ErrorKind
		code string
	}{
		{audit.ExecFailed, "AUD001"},
		{audit.Timeout, "AUD002"},
		{audit.Unparseable, "AUD003"},
		{audit.ToolNotFound, "AUD004"},
	}

	pctx := newProject(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
	})
	for _, tc := range cases {
		clients := newClients()
		clients.Audit = &stubAudit{err: &audit.Error{Kind: tc.kind}}

		findings := runCheckFunc(t, checkVulnerabilities, pctx, clients)
		require.Len(t, findings, 1, "kind %s", tc.kind)
		assert.Equal(t, tc.code, findings[0].Code)
		assert.Equal(t, diagnostics.SeverityWarning, findings[0].Severity)
		assert.NotEmpty(t, findings[0].FixHint)
	}
}

func TestAuditSkippedWithoutRunner(t *testing.T) {
	pctx := newProject(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n",
	})
	assert.Empty(t, runCheckFunc(t, checkVulnerabilities, pctx, newClients()))
}
