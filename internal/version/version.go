// Package version compares the locally synchronized catalog version with
// the one the provider advertises.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/cardctl/internal/provider"
	"github.com/blackwell-systems/cardctl/internal/util"
)

// ErrMalformedVersion is returned when the version endpoint does not
// return a list with exactly one record carrying a version string.
var ErrMalformedVersion = errors.New("malformed version payload")

// Checker reads and writes the local version file and queries the
// provider's version endpoint.
type Checker struct {
	path    string
	url     string
	fetcher provider.Fetcher
}

// NewChecker returns a Checker for the version file at path.
func NewChecker(path, url string, f provider.Fetcher) *Checker {
	return &Checker{path: path, url: url, fetcher: f}
}

// Path returns the version file location.
func (c *Checker) Path() string { return c.path }

// Local returns the stored token. ok is false when no sync has completed
// yet; that is not an error.
func (c *Checker) Local() (token string, ok bool, err error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading version file: %w", err)
	}
	return string(data), true, nil
}

// Upstream fetches the provider's current version token.
func (c *Checker) Upstream(ctx context.Context) (string, error) {
	raw, err := c.fetcher.Fetch(ctx, c.url)
	if err != nil {
		return "", err
	}
	return ParseUpstream(raw)
}

// NewVersionAvailable reports whether an update is warranted. With no
// local token it returns true without contacting the provider.
func (c *Checker) NewVersionAvailable(ctx context.Context) (bool, error) {
	local, ok, err := c.Local()
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	upstream, err := c.Upstream(ctx)
	if err != nil {
		return false, err
	}
	return Differs(local, upstream), nil
}

// UpdateLocal replaces the version file with token.
func (c *Checker) UpdateLocal(token string) error {
	if err := util.WriteFileAtomic(c.path, []byte(token)); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// Differs compares tokens by exact string equality, whitespace included.
func Differs(local, upstream string) bool {
	return local != upstream
}

type record struct {
	DatabaseVersion *string `json:"database_version"`
}

// ParseUpstream extracts the token from a payload such as
// [{"database_version":"1.2.3"}].
func ParseUpstream(raw string) (string, error) {
	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedVersion, err)
	}
	if len(records) != 1 {
		return "", fmt.Errorf("%w: expected 1 record, got %d", ErrMalformedVersion, len(records))
	}
	if records[0].DatabaseVersion == nil {
		return "", fmt.Errorf("%w: missing database_version", ErrMalformedVersion)
	}
	return *records[0].DatabaseVersion, nil
}
