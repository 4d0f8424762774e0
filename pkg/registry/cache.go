package registry

import (
	"context"
	"sync"
)

// Cached memoizes lookups for the lifetime of one run, so a crate appearing
// in several dependency tables is queried once. The cache is an explicit
// object created per run, never a process-wide singleton.
type Cached struct {
	client Client

	mu      sync.Mutex
	results map[string]cachedResult
}

type cachedResult struct {
	version string
	err     error
}

// NewCached wraps a client with a run-scoped cache.
func NewCached(client Client) *Cached {
	return &Cached{client: client, results: make(map[string]cachedResult)}
}

// LatestVersion implements Client. Failures are memoized alongside successes
// so a crate is never queried twice in one run.
func (c *Cached) LatestVersion(ctx context.Context, crate string) (string, error) {
	c.mu.Lock()
	if res, ok := c.results[crate]; ok {
		c.mu.Unlock()
		return res.version, res.err
	}
	c.mu.Unlock()

	version, err := c.client.LatestVersion(ctx, crate)

	c.mu.Lock()
	c.results[crate] = cachedResult{version: version, err: err}
	c.mu.Unlock()
	return version, err
}
