// Package output renders a diagnostics report for people (text) and for
// machines (json, sarif). Renderers write to an io.Writer so tests can
// capture them; the CLI passes stdout.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
)

var severityColors = map[diagnostics.Severity]*color.Color{
	diagnostics.SeverityError:   color.New(color.FgRed, color.Bold),
	diagnostics.SeverityWarning: color.New(color.FgYellow, color.Bold),
	diagnostics.SeverityNote:    color.New(color.FgCyan),
}

// RenderText writes the human-readable report. Findings come out in the
// report's order: most severe first, then by code.
func RenderText(w io.Writer, report *diagnostics.Report) {
	if report.Len() == 0 {
		fmt.Fprintln(w, color.GreenString("No problems found."))
		return
	}

	for _, f := range report.Findings {
		label := severityColors[f.Severity].Sprintf("%s[%s]", f.Severity, f.Code)
		fmt.Fprintf(w, "%s %s\n", label, f.Message)
		if f.Location != nil {
			fmt.Fprintf(w, "  --> %s\n", f.Location)
		}
		if f.FixHint != "" {
			fmt.Fprintf(w, "  hint: %s\n", f.FixHint)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s, %s, %s\n",
		color.New(color.Bold).Sprint("summary:"),
		pluralize(report.Summary.Errors, "error"),
		pluralize(report.Summary.Warnings, "warning"),
		pluralize(report.Summary.Notes, "note"))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
