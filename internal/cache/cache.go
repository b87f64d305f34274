// Package cache holds the active catalog in memory and knows where its
// files live on disk.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/codec"
	"github.com/blackwell-systems/cardctl/internal/logging"
	"github.com/blackwell-systems/cardctl/internal/store"
)

// Loader reads a persisted catalog.
type Loader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Cache owns the process's active catalog. Catalogs handed out by Snapshot
// are never mutated afterwards; Replace swaps in a new value instead.
type Cache struct {
	mu         sync.RWMutex
	cat        *catalog.Catalog
	generation uint64
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// LoadFromDisk populates the cache from l. A missing or undecodable
// catalog leaves the cache empty without error; the next successful
// update repairs it.
func (c *Cache) LoadFromDisk(ctx context.Context, l Loader) error {
	cat, err := l.Load(ctx)
	var de *codec.DecodeError
	switch {
	case errors.Is(err, store.ErrNoCatalog):
		logging.FromContext(ctx).Debug("no persisted catalog, starting empty")
		return nil
	case errors.As(err, &de):
		logging.FromContext(ctx).Warn("persisted catalog is corrupt, starting empty", "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("loading catalog: %w", err)
	}
	c.Replace(cat)
	return nil
}

// Replace makes cat the active catalog. The cache keeps its own copy.
func (c *Cache) Replace(cat *catalog.Catalog) {
	cp := cat.Clone()
	c.mu.Lock()
	c.cat = cp
	c.generation++
	c.mu.Unlock()
}

// Snapshot returns the active catalog, or an empty one before the first
// load. Callers must treat it as read-only.
func (c *Cache) Snapshot() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cat == nil {
		return &catalog.Catalog{}
	}
	return c.cat
}

// Generation counts Replace calls; it changes whenever the catalog does.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Empty reports whether the cache holds no records.
func (c *Cache) Empty() bool {
	return c.Snapshot().Empty()
}
