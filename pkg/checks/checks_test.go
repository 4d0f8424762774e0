package checks

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cratedoctor/cratedoctor/pkg/audit"
	"github.com/cratedoctor/cratedoctor/pkg/diagnostics"
	"github.com/cratedoctor/cratedoctor/pkg/project"
)

// newProject lays out a fixture tree and builds its context.
func newProject(t *testing.T, files map[string]string) *project.Context {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	pctx, err := project.NewContext(root)
	require.NoError(t, err)
	return pctx
}

// stubRegistry serves canned versions and errors and records which crates
// were queried.
type stubRegistry struct {
	versions map[string]string
	errs     map[string]error

	mu      sync.Mutex
	queried []string
}

func (s *stubRegistry) LatestVersion(_ context.Context, crate string) (string, error) {
	s.mu.Lock()
	s.queried = append(s.queried, crate)
	s.mu.Unlock()
	if err, ok := s.errs[crate]; ok {
		return "", err
	}
	if version, ok := s.versions[crate]; ok {
		return version, nil
	}
	return "0.0.0", nil
}

// stubAudit returns a canned report or error.
type stubAudit struct {
	report *audit.Report
	err    error
}

func (s *stubAudit) Run(context.Context, string) (*audit.Report, error) {
	return s.report, s.err
}

func newClients() Clients {
	return Clients{Sources: project.NewSourceCache()}
}

func runCheckFunc(t *testing.T, chk Check, pctx *project.Context, clients Clients) []diagnostics.Finding {
	t.Helper()
	return chk.Run(context.Background(), pctx, clients)
}

func findingCodes(findings []diagnostics.Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}
