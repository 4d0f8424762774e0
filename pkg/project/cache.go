package project

import (
	"os"
	"sync"
)

// SourceCache memoizes file contents for the duration of one run so several
// file-scanning checks running in parallel read each source exactly once. It
// is created per run and discarded afterwards, never shared across runs.
type SourceCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once    sync.Once
	content string
	err     error
}

// NewSourceCache creates an empty cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{entries: make(map[string]*cacheEntry)}
}

// Load returns the contents of the file at path, reading it at most once.
// Read failures are memoized too, so every caller observes the same error.
func (c *SourceCache) Load(path string) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[path]
	if !ok {
		entry = &cacheEntry{}
		c.entries[path] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			entry.err = err
			return
		}
		entry.content = string(data)
	})
	return entry.content, entry.err
}
