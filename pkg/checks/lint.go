package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

var denyAttrPattern = regexp.MustCompile(`#!\[deny\(([^)]+)\)\]`)

var checkDenyWarnings = Check{
	Descriptor: Descriptor{
		Code:     "LINT001",
		Name:     "missing deny(warnings)",
		Category: "lint-config",
		Kind:     KindFileScan,
		Default:  diagnostics.SeverityNote,
	},
	Run: func(_ context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding {
		var findings []diagnostics.Finding
		for _, rel := range []string{"src/lib.rs", "src/main.rs"} {
			path := filepath.Join(pctx.Root, filepath.FromSlash(rel))
			content, err := clients.Sources.Load(path)
			if err != nil {
				continue
			}
			if deniesWarnings(content) {
				continue
			}
			findings = append(findings, diagnostics.NewFinding("LINT001", diagnostics.SeverityNote,
				fmt.Sprintf("No #![deny(warnings)] attribute in %s.", rel)).
				WithFile(rel).
				WithHint("Add #![deny(warnings)] at the top of the crate root to keep the build warning-free."))
		}
		return findings
	},
}

// deniesWarnings reports whether any crate-level deny attribute in the file
// lists the warnings lint.
func deniesWarnings(content string) bool {
	for _, m := range denyAttrPattern.FindAllStringSubmatch(content, -1) {
		for _, lint := range strings.Split(m[1], ",") {
			if strings.TrimSpace(lint) == "warnings" {
				return true
			}
		}
	}
	return false
}
