package checks

// catalog is the full set of registered checks. Order matters: findings are
// collected in catalog order before sorting, so ties within a code keep a
// stable first-seen order across runs.
var catalog = []Check{
	checkPackageSection,
	checkDescription,
	checkLicense,
	checkRepository,
	checkReadmeField,
	checkEditionOutdated,
	checkEditionMissing,
	checkWildcardVersions,
	checkOutdatedDependencies,
	checkUnwrap,
	checkExpect,
	checkDebugMacros,
	checkTodoComments,
	checkUnreadableSources,
	checkEntryPoints,
	checkReadmeFile,
	checkLicenseFile,
	checkDenyWarnings,
	checkVulnerabilities,
}

// Catalog returns a copy of the registered checks.
func Catalog() []Check {
	out := make([]Check, len(catalog))
	copy(out, catalog)
	return out
}

// Descriptors returns the static metadata of every registered check, for
// surfaces that list or document the catalog.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, c := range catalog {
		out[i] = c.Descriptor
	}
	return out
}
