package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/codec"
	"github.com/blackwell-systems/cardctl/internal/util"
)

// Blob persists the catalog as one codec-encoded file.
type Blob struct {
	path string
}

// NewBlob returns a Blob persister writing to path.
func NewBlob(path string) *Blob {
	return &Blob{path: path}
}

func (b *Blob) Name() string { return "blob" }

// Path returns the live cache file path.
func (b *Blob) Path() string { return b.path }

// Stage encodes c into a side file next to the live one and fsyncs it.
func (b *Blob) Stage(ctx context.Context, c *catalog.Catalog) (Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := codec.Encode(c)

	tmpPath := b.path + ".tmp"
	if err := util.EnsureDir(filepath.Dir(b.path)); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := util.WriteFileSync(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("writing staged cache: %w", err)
	}
	return &blobPending{tmpPath: tmpPath, path: b.path}, nil
}

// Load reads and decodes the live cache file. A missing file yields
// ErrNoCatalog; a corrupted one a *codec.DecodeError.
func (b *Blob) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCatalog
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return codec.Decode(data)
}

type blobPending struct {
	tmpPath string
	path    string
	done    bool
}

// Commit renames the side file over the live file.
func (p *blobPending) Commit(ctx context.Context) error {
	if p.done {
		return nil
	}
	if err := os.Rename(p.tmpPath, p.path); err != nil {
		return err
	}
	p.done = true
	return nil
}

// Discard removes the side file; the live file is untouched.
func (p *blobPending) Discard(ctx context.Context) error {
	if p.done {
		return nil
	}
	p.done = true
	if err := os.Remove(p.tmpPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
