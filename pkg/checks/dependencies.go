package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/logger"
	"github.com/cratedoctor/cratedoctor/pkg/manifest"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

var checkWildcardVersions = Check{
	Descriptor: Descriptor{
		Code:     "DP001",
		Name:     "wildcard dependency version",
		Category: "dependency",
		Kind:     KindPure,
		Default:  diagnostics.SeverityWarning,
	},
	Run: func(_ context.Context, pctx *project.Context, _ Clients) []diagnostics.Finding {
		var findings []diagnostics.Finding
		for _, table := range pctx.Manifest.Tables() {
			for _, name := range sortedNames(table.Entries) {
				if !table.Entries[name].IsWildcard() {
					continue
				}
				findings = append(findings, diagnostics.NewFinding("DP001", diagnostics.SeverityWarning,
					fmt.Sprintf("Wildcard version \"*\" used for %s dependency %q.", table.Kind, name)).
					WithFile(manifest.FileName).
					WithHint(fmt.Sprintf("Pin %s to a version range, e.g. %s = \"1\".", name, name)))
			}
		}
		return findings
	},
}

var checkOutdatedDependencies = Check{
	Descriptor: Descriptor{
		Code:     "DP002",
		Name:     "outdated dependency",
		Category: "dependency",
		Kind:     KindNetwork,
		Default:  diagnostics.SeverityWarning,
	},
	Run: runOutdatedDependencies,
}

// runOutdatedDependencies compares every registry dependency against the
// latest published version. A failed lookup degrades to one API001 Warning
// for that dependency and never blocks the others; a crate appearing in
// several tables is reported once.
func runOutdatedDependencies(ctx context.Context, pctx *project.Context, clients Clients) []diagnostics.Finding {
	if clients.Registry == nil {
		return nil
	}

	var findings []diagnostics.Finding
	seen := make(map[string]bool)
	for _, table := range pctx.Manifest.Tables() {
		for _, name := range sortedNames(table.Entries) {
			if seen[name] {
				continue
			}
			seen[name] = true

			dep := table.Entries[name]
			if dep.Path != "" || dep.IsWildcard() || dep.Version == "" {
				continue
			}
			current, err := semver.NewVersion(normalizeRequirement(dep.Version))
			if err != nil {
				logger.Debugf("checks: skipping %s, unparseable requirement %q", name, dep.Version)
				continue
			}

			latestRaw, err := clients.Registry.LatestVersion(ctx, name)
			if err != nil {
				findings = append(findings, diagnostics.NewFinding("API001", diagnostics.SeverityWarning,
					fmt.Sprintf("Could not determine latest version of %q: %v.", name, err)).
					WithFile(manifest.FileName))
				continue
			}
			latest, err := semver.NewVersion(latestRaw)
			if err != nil {
				findings = append(findings, diagnostics.NewFinding("API001", diagnostics.SeverityWarning,
					fmt.Sprintf("Could not determine latest version of %q: registry reported unparseable version %q.", name, latestRaw)).
					WithFile(manifest.FileName))
				continue
			}

			if current.LessThan(latest) {
				findings = append(findings, diagnostics.NewFinding("DP002", diagnostics.SeverityWarning,
					fmt.Sprintf("Dependency %q is outdated: requirement %s, latest is %s.", name, dep.Version, latest)).
					WithFile(manifest.FileName).
					WithHint(fmt.Sprintf("Run cargo update -p %s, or raise the requirement in Cargo.toml.", name)))
			}
		}
	}
	return findings
}

// normalizeRequirement strips the requirement operator so the remaining
// version can be parsed. Cargo treats a bare "1.2" as a caret requirement.
func normalizeRequirement(req string) string {
	return strings.TrimSpace(strings.TrimLeft(req, "^~=<> "))
}

func sortedNames(entries map[string]manifest.Dependency) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
