package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
)

func sampleReport() *diagnostics.Report {
	return diagnostics.NewReport([]diagnostics.Finding{
		diagnostics.NewFinding("SEC001", diagnostics.SeverityError, "Vulnerability RUSTSEC-2024-0001 in dependency \"smallstring\": Buffer overflow.").
			WithFile("Cargo.lock").
			WithHint("Upgrade smallstring to a patched version: >=0.3.2."),
		diagnostics.NewFinding("CODE001", diagnostics.SeverityWarning, "Use of .unwrap() in library code.").
			WithLine("src/lib.rs", 14),
		diagnostics.NewFinding("MD003", diagnostics.SeverityNote, "Missing 'repository' field in [package] section."),
	})
}

func TestRenderTextListsFindingsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "error[SEC001]")
	assert.Contains(t, out, "warning[CODE001]")
	assert.Contains(t, out, "note[MD003]")
	assert.Contains(t, out, "--> src/lib.rs:14")
	assert.Contains(t, out, "hint: Upgrade smallstring")
	assert.Contains(t, out, "1 error, 1 warning, 1 note")

	// Most severe first.
	assert.Less(t, strings.Index(out, "SEC001"), strings.Index(out, "CODE001"))
	assert.Less(t, strings.Index(out, "CODE001"), strings.Index(out, "MD003"))
}

func TestRenderTextCleanReport(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, diagnostics.NewReport(nil))
	assert.Contains(t, buf.String(), "No problems found.")
}

func TestRenderTextPluralizesSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, diagnostics.NewReport([]diagnostics.Finding{
		diagnostics.NewFinding("MD001", diagnostics.SeverityWarning, "a"),
		diagnostics.NewFinding("MD002", diagnostics.SeverityWarning, "b"),
	}))
	assert.Contains(t, buf.String(), "0 errors, 2 warnings, 0 notes")
}

func TestRenderJSONContract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleReport()))

	var decoded struct {
		Findings []map[string]interface{} `json:"findings"`
		Summary  map[string]int           `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Findings, 3)
	assert.Equal(t, "SEC001", decoded.Findings[0]["code"])
	assert.Equal(t, "error", decoded.Findings[0]["severity"])
	assert.Equal(t, map[string]int{"error_count": 1, "warning_count": 1, "note_count": 1}, decoded.Summary)
}

func TestRenderSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSARIF(&buf, sampleReport(), "1.2.3"))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region *struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "cratedoctor", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)

	ruleIDs := make(map[string]bool)
	for _, rule := range run.Tool.Driver.Rules {
		ruleIDs[rule.ID] = true
	}
	// Catalog rules plus the derived degradation codes.
	for _, id := range []string{"MD001", "SEC001", "CODE001", "API001", "AUD004"} {
		assert.True(t, ruleIDs[id], "missing rule %s", id)
	}

	require.Len(t, run.Results, 3)
	assert.Equal(t, "SEC001", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "note", run.Results[2].Level)

	unwrap := run.Results[1]
	require.Len(t, unwrap.Locations, 1)
	assert.Equal(t, "src/lib.rs", unwrap.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	require.NotNil(t, unwrap.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 14, unwrap.Locations[0].PhysicalLocation.Region.StartLine)

	// The note finding has no location at all.
	assert.Empty(t, run.Results[2].Locations)
}
