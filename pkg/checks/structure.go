package checks

import (
	"context"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/manifest"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

var checkEntryPoints = Check{
	Descriptor: Descriptor{
		Code:     "STRUCT001",
		Name:     "missing entry points",
		Category: "structure",
		Kind:     KindPure,
		Default:  diagnostics.SeverityWarning,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		if pctx.Manifest.Package == nil || pctx.HasLibraryEntry || pctx.HasBinaryEntry {
			return nil
		}
		f := diagnostics.NewFinding("STRUCT001", diagnostics.SeverityWarning,
			"No src/lib.rs, src/main.rs, or src/bin/ entry point found.").
			WithFile(manifest.FileName).
			WithHint("Add src/lib.rs for a library or src/main.rs for a binary.")
		return []diagnostics.Finding{f}
	},
}

var checkReadmeFile = Check{
	Descriptor: Descriptor{
		Code:     "STRUCT002",
		Name:     "missing readme file",
		Category: "structure",
		Kind:     KindPure,
		Default:  diagnostics.SeverityNote,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		pkg := pctx.Manifest.Package
		if pkg == nil || pctx.ReadmeFile != "" {
			return nil
		}
		// readme = false is an explicit opt-out, and a custom readme path that
		// resolves to a real file counts too.
		if pkg.Readme.Disabled {
			return nil
		}
		if pkg.Readme.Path != "" && pctx.FileExists(pkg.Readme.Path) {
			return nil
		}
		f := diagnostics.NewFinding("STRUCT002", diagnostics.SeverityNote,
			"No README file found in the project root.").
			WithHint("Add a README.md describing the crate.")
		return []diagnostics.Finding{f}
	},
}

var checkLicenseFile = Check{
	Descriptor: Descriptor{
		Code:     "STRUCT003",
		Name:     "missing license file",
		Category: "structure",
		Kind:     KindPure,
		Default:  diagnostics.SeverityWarning,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		pkg := pctx.Manifest.Package
		if pkg == nil || pctx.LicenseFile != "" || pkg.License != "" {
			return nil
		}
		f := diagnostics.NewFinding("STRUCT003", diagnostics.SeverityWarning,
			"No license file found and no license declared in Cargo.toml.").
			WithHint("Add a LICENSE file, or declare license in [package].")
		return []diagnostics.Finding{f}
	},
}
