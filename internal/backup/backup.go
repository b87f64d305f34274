// Package backup makes a catalog update atomic from the caller's point of
// view: live files are copied aside before the update writes anything and
// are moved back if the update fails.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/blackwell-systems/cardctl/internal/util"
)

var (
	// ErrUpdateInProgress is returned by Begin while another attempt, in
	// this process or another, holds the update lock.
	ErrUpdateInProgress = errors.New("an update is already in progress")
	// ErrNotUpdating is returned by Commit and Rollback outside an attempt.
	ErrNotUpdating = errors.New("no update in progress")
)

// State is the coordinator's position in the update protocol.
type State int

const (
	// Stable means the live files match the local version token.
	Stable State = iota
	// Updating means backups exist and live files may be rewritten.
	Updating
)

func (s State) String() string {
	switch s {
	case Stable:
		return "stable"
	case Updating:
		return "updating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BackupSuffix is appended to a live file's path to name its backup.
const BackupSuffix = ".bak"

// Coordinator guards a fixed set of live files. It is single-flight: one
// attempt at a time, not reentrant. The in-process state is backed by an
// exclusive file lock held from Begin until Commit or Rollback, so
// coordinators in other processes see the attempt too.
type Coordinator struct {
	mu      sync.Mutex
	state   State
	journal string
	lock    *flock.Flock
	files   []string
	current *manifest
	now     func() time.Time
}

// New returns a Coordinator protecting files. The journal records an
// in-flight attempt so Recover can finish it after a crash. The lock file
// sits next to the journal (update.journal locks update.lock).
func New(journal string, files ...string) *Coordinator {
	return &Coordinator{
		journal: journal,
		lock:    flock.New(LockPath(journal)),
		files:   append([]string(nil), files...),
		now:     time.Now,
	}
}

// LockPath returns the lock file guarding journal.
func LockPath(journal string) string {
	return strings.TrimSuffix(journal, filepath.Ext(journal)) + ".lock"
}

// tryLock takes the cross-process lock without blocking.
func (c *Coordinator) tryLock() (bool, error) {
	locked, err := c.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("locking %s: %w", c.lock.Path(), err)
	}
	return locked, nil
}

func (c *Coordinator) unlock() {
	_ = c.lock.Unlock()
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin snapshots every live file. If any copy cannot be made and verified
// nothing is left behind and the coordinator stays Stable.
func (c *Coordinator) Begin(attempt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Updating {
		return ErrUpdateInProgress
	}
	locked, err := c.tryLock()
	if err != nil {
		return err
	}
	if !locked {
		return ErrUpdateInProgress
	}

	m := &manifest{Attempt: attempt, Started: c.now().UTC()}
	cleanup := func() {
		for _, e := range m.Files {
			if e.Existed {
				_ = os.Remove(e.Path + BackupSuffix)
			}
		}
		c.unlock()
	}

	for _, path := range c.files {
		e, err := snapshot(path)
		if err != nil {
			cleanup()
			return err
		}
		m.Files = append(m.Files, e)
	}

	if err := writeManifest(c.journal, m); err != nil {
		cleanup()
		return fmt.Errorf("writing backup journal: %w", err)
	}

	c.current = m
	c.state = Updating
	return nil
}

// Commit discards the backups. Removing the journal is the commit point;
// leftover backup files after that are harmless.
func (c *Coordinator) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Updating {
		return ErrNotUpdating
	}
	if err := removeIfExists(c.journal); err != nil {
		return fmt.Errorf("removing backup journal: %w", err)
	}
	for _, e := range c.current.Files {
		if e.Existed {
			_ = os.Remove(e.Path + BackupSuffix)
		}
	}
	c.current = nil
	c.state = Stable
	c.unlock()
	return nil
}

// Rollback moves every backup back over its live file and deletes live
// files that did not exist when the attempt began. If restoring fails the
// coordinator stays Updating and the journal is kept for Recover.
func (c *Coordinator) Rollback() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Updating {
		return ErrNotUpdating
	}
	if err := restore(c.current); err != nil {
		return err
	}
	if err := removeIfExists(c.journal); err != nil {
		return fmt.Errorf("removing backup journal: %w", err)
	}
	c.current = nil
	c.state = Stable
	c.unlock()
	return nil
}

// Recover finishes an attempt interrupted by a crash by rolling it back.
// It reports whether anything was restored. Call it before loading the
// catalog at startup.
//
// A journal whose lock is still held belongs to a live attempt in another
// process; Recover then leaves every file alone and reports false.
func (c *Coordinator) Recover() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Updating {
		return false, ErrUpdateInProgress
	}
	locked, err := c.tryLock()
	if err != nil {
		return false, err
	}
	if !locked {
		return false, nil
	}
	defer c.unlock()

	m, err := readManifest(c.journal)
	if errors.Is(err, os.ErrNotExist) {
		// A crash inside Begin can leave backups without a journal; the
		// live files were not touched yet.
		for _, path := range c.files {
			_ = os.Remove(path + BackupSuffix)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading backup journal: %w", err)
	}

	if err := restore(m); err != nil {
		return false, err
	}
	if err := removeIfExists(c.journal); err != nil {
		return true, fmt.Errorf("removing backup journal: %w", err)
	}
	return true, nil
}

// snapshot copies path aside and checks the copy byte for byte.
func snapshot(path string) (entry, error) {
	ok, err := util.Exists(path)
	if err != nil {
		return entry{}, fmt.Errorf("backup %s: %w", path, err)
	}
	if !ok {
		return entry{Path: path}, nil
	}

	bak := path + BackupSuffix
	if err := util.CopyFile(path, bak); err != nil {
		_ = os.Remove(bak)
		return entry{}, fmt.Errorf("backup %s: %w", path, err)
	}
	want, err := util.SHA256File(path)
	if err != nil {
		_ = os.Remove(bak)
		return entry{}, fmt.Errorf("backup %s: %w", path, err)
	}
	got, err := util.SHA256File(bak)
	if err != nil || got != want {
		_ = os.Remove(bak)
		if err == nil {
			err = fmt.Errorf("checksum mismatch: expected %s, got %s", want, got)
		}
		return entry{}, fmt.Errorf("backup %s: %w", path, err)
	}
	return entry{Path: path, Existed: true, SHA256: want}, nil
}

func restore(m *manifest) error {
	var errs []error
	for _, e := range m.Files {
		if !e.Existed {
			if err := removeIfExists(e.Path); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", e.Path, err))
			}
			continue
		}
		bak := e.Path + BackupSuffix
		ok, err := util.Exists(bak)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", e.Path, err))
			continue
		}
		if !ok {
			// Already moved back by an earlier, interrupted restore.
			continue
		}
		if err := os.Rename(bak, e.Path); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", e.Path, err))
		}
	}
	return errors.Join(errs...)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
