// Package project builds the read-only snapshot every check consumes: the
// parsed manifest, the project root, and a classified listing of source
// files. The snapshot is built once before any check runs and never mutated,
// which is what makes parallel check execution safe without locking.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cratedoctor/cratedoctor/pkg/manifest"
)

// ErrNotCrateProject is returned when the root directory has no Cargo.toml.
var ErrNotCrateProject = errors.New("not a Cargo project: no Cargo.toml found")

// sourceRoots are the directories scanned for Rust sources, relative to the
// project root.
var sourceRoots = []string{"src", "tests", "examples", "benches"}

// licenseFileNames are the conventional license file names looked for at the
// project root, matched case-insensitively.
var licenseFileNames = []string{"LICENSE", "LICENSE.txt", "LICENSE-MIT", "LICENSE-APACHE", "COPYING", "UNLICENSE"}

// SourceFile is one Rust source file in the project tree.
type SourceFile struct {
	// Path is the absolute path on disk.
	Path string
	// Rel is the slash-separated path relative to the project root, used in
	// finding locations.
	Rel string
	// LibraryContext is true for files under src/ that are not the binary
	// entry point, not under src/bin/, and not a build script. The library
	// entry point src/lib.rs counts as library context.
	LibraryContext bool
}

// Context is the immutable per-run snapshot of a project.
type Context struct {
	// Root is the absolute project root path.
	Root string
	// Manifest is the parsed Cargo.toml.
	Manifest *manifest.Manifest
	// Sources lists Rust files under src/, tests/, examples/ and benches/,
	// sorted by relative path for deterministic scan order.
	Sources []SourceFile

	// HasLibraryEntry is true when src/lib.rs exists.
	HasLibraryEntry bool
	// HasBinaryEntry is true when src/main.rs or a src/bin/ directory exists.
	HasBinaryEntry bool
	// ReadmeFile is the root README file name if one exists ("" otherwise).
	ReadmeFile string
	// LicenseFile is the root license file name if one exists ("" otherwise).
	LicenseFile string
}

// NewContext resolves the project root, parses the manifest, and classifies
// the file tree. This is the only stage of a run allowed to fail outright:
// everything downstream of a valid context degrades to findings instead.
func NewContext(root string) (*Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not resolve project path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("could not resolve project path %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %q is not a directory", root)
	}

	manifestPath := filepath.Join(abs, manifest.FileName)
	if fi, err := os.Stat(manifestPath); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("%w (looked in %s)", ErrNotCrateProject, abs)
	}

	m, err := manifest.Parse(manifestPath)
	if err != nil {
		return nil, err
	}

	ctx := &Context{Root: abs, Manifest: m}
	ctx.Sources = collectSources(abs)
	ctx.HasLibraryEntry = isFile(filepath.Join(abs, "src", "lib.rs"))
	ctx.HasBinaryEntry = isFile(filepath.Join(abs, "src", "main.rs")) || isDir(filepath.Join(abs, "src", "bin"))
	ctx.ReadmeFile = findReadme(abs)
	ctx.LicenseFile = findLicense(abs)
	return ctx, nil
}

// ManifestPath returns the absolute path of the project's Cargo.toml.
func (c *Context) ManifestPath() string {
	return filepath.Join(c.Root, manifest.FileName)
}

// FileExists reports whether a regular file exists at the given path relative
// to the project root.
func (c *Context) FileExists(rel string) bool {
	return isFile(filepath.Join(c.Root, filepath.FromSlash(rel)))
}

// collectSources walks the conventional source roots and returns every .rs
// file, sorted by relative path.
func collectSources(root string) []SourceFile {
	var sources []SourceFile
	for _, dir := range sourceRoots {
		base := filepath.Join(root, dir)
		if !isDir(base) {
			continue
		}
		// Walk errors on individual entries are ignored here; unreadable
		// files surface later as IO findings when a check tries to read them.
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || filepath.Ext(path) != ".rs" {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			sources = append(sources, SourceFile{
				Path:           path,
				Rel:            rel,
				LibraryContext: isLibraryContext(rel),
			})
			return nil
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Rel < sources[j].Rel })
	return sources
}

// isLibraryContext classifies a relative path as library code: under src/,
// excluding the binary entry point, src/bin/ targets, and build scripts.
func isLibraryContext(rel string) bool {
	if !strings.HasPrefix(rel, "src/") {
		return false
	}
	if rel == "src/main.rs" || strings.HasPrefix(rel, "src/bin/") {
		return false
	}
	return filepath.Base(rel) != "build.rs"
}

func findReadme(root string) string {
	for _, name := range []string{"README.md", "README.rst"} {
		if isFile(filepath.Join(root, name)) {
			return name
		}
	}
	return ""
}

func findLicense(root string) string {
	for _, name := range licenseFileNames {
		for _, candidate := range []string{name, strings.ToUpper(name), strings.ToLower(name)} {
			if isFile(filepath.Join(root, candidate)) {
				return candidate
			}
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
