package output

import (
	"encoding/json"
	"io"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
)

// RenderJSON writes the report as indented JSON. The field names are a
// stable machine contract: findings carry code, severity, message, optional
// location and fix_hint, and the summary carries the three severity counts.
func RenderJSON(w io.Writer, report *diagnostics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
