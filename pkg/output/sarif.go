package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cratedoctor/cratedoctor/pkg/checks"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// derivedRules covers codes emitted under another check's run: lookup and
// audit failure degradations. They live outside the catalog but still need a
// SARIF rule entry.
var derivedRules = []sarifRule{
	{ID: "API001", ShortDescription: sarifMessage{Text: "registry lookup failed"}, Properties: map[string]string{"category": "dependency"}},
	{ID: "AUD001", ShortDescription: sarifMessage{Text: "audit execution failed"}, Properties: map[string]string{"category": "security"}},
	{ID: "AUD002", ShortDescription: sarifMessage{Text: "audit timed out"}, Properties: map[string]string{"category": "security"}},
	{ID: "AUD003", ShortDescription: sarifMessage{Text: "audit output unparseable"}, Properties: map[string]string{"category": "security"}},
	{ID: "AUD004", ShortDescription: sarifMessage{Text: "audit tool not found"}, Properties: map[string]string{"category": "security"}},
}

// RenderSARIF writes the report in SARIF 2.1.0 so CI systems and code hosts
// can ingest the findings.
func RenderSARIF(w io.Writer, report *diagnostics.Report, toolVersion string) error {
	rules := make([]sarifRule, 0, len(derivedRules)+len(checks.Descriptors()))
	for _, d := range checks.Descriptors() {
		rules = append(rules, sarifRule{
			ID:               d.Code,
			ShortDescription: sarifMessage{Text: d.Name},
			Properties:       map[string]string{"category": d.Category},
		})
	}
	rules = append(rules, derivedRules...)

	results := make([]sarifResult, 0, report.Len())
	for _, f := range report.Findings {
		text := f.Message
		if f.FixHint != "" {
			text = fmt.Sprintf("%s %s", f.Message, f.FixHint)
		}
		result := sarifResult{
			RuleID:  f.Code,
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: text},
		}
		if f.Location != nil {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.Location.File},
				},
			}
			if f.Location.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: f.Location.Line}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	doc := sarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "cratedoctor",
						Version:        toolVersion,
						InformationURI: "https://github.com/cratedoctor/cratedoctor",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sarifLevel(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityError:
		return "error"
	case diagnostics.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
