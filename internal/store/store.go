// Package store persists catalogs. Two interchangeable strategies exist:
// Blob writes the binary cache file, Postgres loads relational tables.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// ErrNoCatalog is returned by Load when nothing has been persisted yet.
var ErrNoCatalog = errors.New("no persisted catalog")

// Persister stores and reloads a full catalog generation.
//
// Stage writes the new generation somewhere it is not yet visible and
// returns a Pending handle. Nothing changes for readers until Commit.
type Persister interface {
	Name() string
	Stage(ctx context.Context, c *catalog.Catalog) (Pending, error)
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Pending is a staged write awaiting Commit or Discard. Exactly one of the
// two must be called.
type Pending interface {
	Commit(ctx context.Context) error
	Discard(ctx context.Context) error
}

// External is implemented by persisters whose commits live outside the
// data directory, where restoring file backups cannot undo them.
type External interface {
	External() bool
}

// IsExternal reports whether p commits outside the data directory.
func IsExternal(p Persister) bool {
	e, ok := p.(External)
	return ok && e.External()
}

// Persist stages c and commits it immediately.
func Persist(ctx context.Context, p Persister, c *catalog.Catalog) error {
	pending, err := p.Stage(ctx, c)
	if err != nil {
		return fmt.Errorf("%s: staging catalog: %w", p.Name(), err)
	}
	if err := pending.Commit(ctx); err != nil {
		_ = pending.Discard(ctx)
		return fmt.Errorf("%s: committing catalog: %w", p.Name(), err)
	}
	return nil
}
