package checks

import (
	"context"
	"fmt"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/manifest"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

// latestStableEdition is the newest Rust edition; manifests declaring an
// older one get an advisory note.
const latestStableEdition = "2024"

var checkPackageSection = Check{
	Descriptor: Descriptor{
		Code:     "MD005",
		Name:     "missing package section",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityError,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		if pctx.Manifest.Package != nil {
			return nil
		}
		f := diagnostics.NewFinding("MD005", diagnostics.SeverityError,
			"Missing [package] section in Cargo.toml.").
			WithFile(manifest.FileName).
			WithHint("Add a [package] section with at least name and version, or analyze a workspace member instead.")
		return []diagnostics.Finding{f}
	},
}

var checkDescription = Check{
	Descriptor: Descriptor{
		Code:     "MD001",
		Name:     "missing description",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityWarning,
	},
	Run: metadataField(
		func(p *manifest.Package) bool { return p.Description == "" },
		"MD001", diagnostics.SeverityWarning,
		"Missing 'description' field in [package] section.",
		`Add description = "..." to [package] so the crate is searchable on the registry.`,
	),
}

var checkLicense = Check{
	Descriptor: Descriptor{
		Code:     "MD002",
		Name:     "missing license",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityWarning,
	},
	Run: metadataField(
		func(p *manifest.Package) bool { return p.License == "" },
		"MD002", diagnostics.SeverityWarning,
		"Missing 'license' field in [package] section.",
		`Add license = "MIT OR Apache-2.0" (or another SPDX expression) to [package].`,
	),
}

var checkRepository = Check{
	Descriptor: Descriptor{
		Code:     "MD003",
		Name:     "missing repository",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityNote,
	},
	Run: metadataField(
		func(p *manifest.Package) bool { return p.Repository == "" },
		"MD003", diagnostics.SeverityNote,
		"Missing 'repository' field in [package] section.",
		`Add repository = "https://..." to [package] so users can find the source.`,
	),
}

var checkReadmeField = Check{
	Descriptor: Descriptor{
		Code:     "MD004",
		Name:     "readme field",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityNote,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		pkg := pctx.Manifest.Package
		if pkg == nil {
			return nil
		}
		switch {
		case !pkg.Readme.Set:
			f := diagnostics.NewFinding("MD004", diagnostics.SeverityNote,
				"Missing 'readme' field in [package] section.").
				WithFile(manifest.FileName).
				WithHint(`Add readme = "README.md" to [package], or readme = false to opt out.`)
			return []diagnostics.Finding{f}
		case pkg.Readme.Invalid:
			f := diagnostics.NewFinding("MD004", diagnostics.SeverityWarning,
				"Unexpected value for 'readme' field in [package] section.").
				WithFile(manifest.FileName).
				WithHint("The readme field must be a file path string or false.")
			return []diagnostics.Finding{f}
		}
		return nil
	},
}

var checkEditionOutdated = Check{
	Descriptor: Descriptor{
		Code:     "ED001",
		Name:     "outdated edition",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityNote,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		pkg := pctx.Manifest.Package
		if pkg == nil || pkg.Edition == "" || pkg.Edition == latestStableEdition {
			return nil
		}
		f := diagnostics.NewFinding("ED001", diagnostics.SeverityNote,
			fmt.Sprintf("Edition %q is not the latest stable edition (%s).", pkg.Edition, latestStableEdition)).
			WithFile(manifest.FileName).
			WithHint(fmt.Sprintf(`Consider migrating with cargo fix --edition and setting edition = "%s".`, latestStableEdition))
		return []diagnostics.Finding{f}
	},
}

var checkEditionMissing = Check{
	Descriptor: Descriptor{
		Code:     "ED002",
		Name:     "missing edition",
		Category: "manifest",
		Kind:     KindPure,
		Default:  diagnostics.SeverityNote,
	},
	Run: metadataField(
		func(p *manifest.Package) bool { return p.Edition == "" },
		"ED002", diagnostics.SeverityNote,
		"Missing 'edition' field in [package] section.",
		fmt.Sprintf(`Declare edition = "%s" explicitly instead of relying on the 2015 default.`, latestStableEdition),
	),
}

// metadataField builds a RunFunc for the common shape of metadata checks: one
// finding against Cargo.toml when a predicate holds for the package section.
// Checks built this way stay silent without a [package] section; that case
// belongs to MD005 alone.
func metadataField(missing func(*manifest.Package) bool, code string, severity diagnostics.Severity, message, hint string) RunFunc {
	return func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		pkg := pctx.Manifest.Package
		if pkg == nil || !missing(pkg) {
			return nil
		}
		f := diagnostics.NewFinding(code, severity, message).
			WithFile(manifest.FileName).
			WithHint(hint)
		return []diagnostics.Finding{f}
	}
}
