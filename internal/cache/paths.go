package cache

import (
	"os"
	"path/filepath"
)

const (
	catalogFile = "catalog.bin"
	versionFile = "version"
	journalFile = "update.journal"
	historyFile = "history.jsonl"
)

// Layout resolves file locations under the data directory.
type Layout struct {
	baseDir string
}

// NewLayout creates a Layout rooted at baseDir.
func NewLayout(baseDir string) Layout {
	return Layout{baseDir: baseDir}
}

// Dir returns the directory holding the catalog files.
// Layout: <baseDir>/ext
func (l Layout) Dir() string {
	return filepath.Join(l.baseDir, "ext")
}

// CatalogPath returns the encoded catalog blob.
func (l Layout) CatalogPath() string { return filepath.Join(l.Dir(), catalogFile) }

// VersionPath returns the local version token file.
func (l Layout) VersionPath() string { return filepath.Join(l.Dir(), versionFile) }

// JournalPath returns the record of an in-flight update.
func (l Layout) JournalPath() string { return filepath.Join(l.Dir(), journalFile) }

// HistoryPath returns the append-only log of update attempts.
func (l Layout) HistoryPath() string { return filepath.Join(l.Dir(), historyFile) }

// EnsureDir creates the catalog directory.
func (l Layout) EnsureDir() error {
	return os.MkdirAll(l.Dir(), 0750)
}
