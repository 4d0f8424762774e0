package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalManifest = "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"

// writeTree lays out a project fixture from relative path -> content.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestNewContextRequiresManifest(t *testing.T) {
	_, err := NewContext(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotCrateProject)
}

func TestNewContextRejectsMalformedManifest(t *testing.T) {
	root := writeTree(t, map[string]string{"Cargo.toml": "[package\nbroken"})
	_, err := NewContext(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestNewContextRejectsNonDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{"Cargo.toml": minimalManifest})
	_, err := NewContext(filepath.Join(root, "Cargo.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestSourceClassification(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Cargo.toml":        minimalManifest,
		"src/lib.rs":        "",
		"src/main.rs":       "",
		"src/util.rs":       "",
		"src/bin/extra.rs":  "",
		"src/build.rs":      "",
		"tests/smoke.rs":    "",
		"examples/basic.rs": "",
		"benches/speed.rs":  "",
		"src/notes.txt":     "ignored",
		"scripts/helper.rs": "outside the source roots",
	})

	ctx, err := NewContext(root)
	require.NoError(t, err)

	byRel := make(map[string]SourceFile)
	var rels []string
	for _, f := range ctx.Sources {
		byRel[f.Rel] = f
		rels = append(rels, f.Rel)
	}

	assert.NotContains(t, byRel, "src/notes.txt")
	assert.NotContains(t, byRel, "scripts/helper.rs")

	assert.True(t, byRel["src/lib.rs"].LibraryContext)
	assert.True(t, byRel["src/util.rs"].LibraryContext)
	assert.False(t, byRel["src/main.rs"].LibraryContext)
	assert.False(t, byRel["src/bin/extra.rs"].LibraryContext)
	assert.False(t, byRel["src/build.rs"].LibraryContext)
	assert.False(t, byRel["tests/smoke.rs"].LibraryContext)
	assert.False(t, byRel["examples/basic.rs"].LibraryContext)
	assert.False(t, byRel["benches/speed.rs"].LibraryContext)

	assert.IsIncreasing(t, rels, "sources must be sorted by relative path")
}

func TestEntryPointDetection(t *testing.T) {
	t.Run("library", func(t *testing.T) {
		root := writeTree(t, map[string]string{"Cargo.toml": minimalManifest, "src/lib.rs": ""})
		ctx, err := NewContext(root)
		require.NoError(t, err)
		assert.True(t, ctx.HasLibraryEntry)
		assert.False(t, ctx.HasBinaryEntry)
	})

	t.Run("binary via src/bin", func(t *testing.T) {
		root := writeTree(t, map[string]string{"Cargo.toml": minimalManifest, "src/bin/tool.rs": ""})
		ctx, err := NewContext(root)
		require.NoError(t, err)
		assert.False(t, ctx.HasLibraryEntry)
		assert.True(t, ctx.HasBinaryEntry)
	})

	t.Run("none", func(t *testing.T) {
		root := writeTree(t, map[string]string{"Cargo.toml": minimalManifest})
		ctx, err := NewContext(root)
		require.NoError(t, err)
		assert.False(t, ctx.HasLibraryEntry)
		assert.False(t, ctx.HasBinaryEntry)
	})
}

func TestReadmeAndLicenseDetection(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Cargo.toml": minimalManifest,
		"README.md":  "# demo",
		"LICENSE":    "MIT",
	})

	ctx, err := NewContext(root)
	require.NoError(t, err)
	assert.Equal(t, "README.md", ctx.ReadmeFile)
	assert.Equal(t, "LICENSE", ctx.LicenseFile)
	assert.True(t, ctx.FileExists("README.md"))
	assert.False(t, ctx.FileExists("CHANGELOG.md"))
}

func TestLicenseDetectionVariants(t *testing.T) {
	for _, name := range []string{"LICENSE-MIT", "COPYING", "UNLICENSE", "license"} {
		root := writeTree(t, map[string]string{"Cargo.toml": minimalManifest, name: "text"})
		ctx, err := NewContext(root)
		require.NoError(t, err)
		assert.NotEmpty(t, ctx.LicenseFile, "expected %s to be detected", name)
	}
}

func TestSourceCacheMemoizesReads(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}"), 0o644))

	cache := NewSourceCache()
	first, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", first)

	// The cached copy survives the file changing on disk mid-run.
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	second, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSourceCacheMemoizesFailures(t *testing.T) {
	cache := NewSourceCache()
	missing := filepath.Join(t.TempDir(), "gone.rs")

	_, first := cache.Load(missing)
	require.Error(t, first)

	// Creating the file afterwards does not change the memoized outcome.
	require.NoError(t, os.WriteFile(missing, []byte(""), 0o644))
	_, second := cache.Load(missing)
	assert.Equal(t, first, second)
}
