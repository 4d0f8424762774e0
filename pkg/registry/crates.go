// Package registry looks up the latest published version of a crate on
// crates.io. The client is an interface so checks can be tested against
// stubs, and every failure is a typed LookupError the caller degrades to a
// Warning finding instead of propagating.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cratedoctor/cratedoctor/pkg/logger"
)

const defaultBaseURL = "https://crates.io/api/v1/crates"

const userAgent = "cratedoctor (github.com/cratedoctor/cratedoctor)"

// Client resolves the latest published version of a crate. Errors are always
// *LookupError.
type Client interface {
	LatestVersion(ctx context.Context, crate string) (string, error)
}

// LookupKind distinguishes the failure modes of a registry lookup.
type LookupKind int

const (
	// LookupNetwork covers transport failures and server errors.
	LookupNetwork LookupKind = iota
	// LookupNotFound means the registry does not know the crate.
	LookupNotFound
	// LookupMalformed means the registry answered with an unusable body.
	LookupMalformed
)

func (k LookupKind) String() string {
	switch k {
	case LookupNetwork:
		return "network failure"
	case LookupNotFound:
		return "not found"
	case LookupMalformed:
		return "malformed response"
	}
	return "unknown"
}

// LookupError is the typed failure of a registry lookup.
type LookupError struct {
	Crate string
	Kind  LookupKind
	Err   error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry lookup for %q: %s: %v", e.Crate, e.Kind, e.Err)
	}
	return fmt.Sprintf("registry lookup for %q: %s", e.Crate, e.Kind)
}

func (e *LookupError) Unwrap() error { return e.Err }

// CratesIO queries the crates.io API. BaseURL can be overridden to point at a
// mock server in tests.
type CratesIO struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewCratesIO creates a client with the production endpoint and a bounded
// HTTP timeout.
func NewCratesIO() *CratesIO {
	return &CratesIO{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// crateResponse is the subset of the crates.io payload we need: the newest
// stable version lives under crate.max_version.
type crateResponse struct {
	Crate struct {
		MaxVersion string `json:"max_version"`
	} `json:"crate"`
}

// LatestVersion implements Client. A transient network failure is retried
// once; all other failures are terminal.
func (c *CratesIO) LatestVersion(ctx context.Context, crate string) (string, error) {
	version, err := c.fetch(ctx, crate)
	if err == nil {
		return version, nil
	}
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) && lookupErr.Kind == LookupNetwork && ctx.Err() == nil {
		logger.Debugf("registry: retrying lookup for %s after %v", crate, lookupErr.Err)
		return c.fetch(ctx, crate)
	}
	return "", err
}

func (c *CratesIO) fetch(ctx context.Context, crate string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.BaseURL, crate)
	logger.Debugf("registry: fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &LookupError{Crate: crate, Kind: LookupNetwork, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &LookupError{Crate: crate, Kind: LookupNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", &LookupError{Crate: crate, Kind: LookupNotFound}
	case resp.StatusCode != http.StatusOK:
		return "", &LookupError{Crate: crate, Kind: LookupNetwork, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var payload crateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &LookupError{Crate: crate, Kind: LookupMalformed, Err: err}
	}
	if payload.Crate.MaxVersion == "" {
		return "", &LookupError{Crate: crate, Kind: LookupMalformed, Err: fmt.Errorf("response missing max_version")}
	}
	return payload.Crate.MaxVersion, nil
}
