// Package history keeps an append-only record of update attempts.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// Entry records one update attempt.
type Entry struct {
	Attempt  string         `json:"attempt"`
	Status   string         `json:"status"`
	Version  string         `json:"version,omitempty"`
	Counts   catalog.Counts `json:"counts"`
	Error    string         `json:"error,omitempty"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

// Ledger is a JSONL append-only attempt log.
type Ledger struct {
	path string
}

// Open opens (or creates the directory for) the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	return &Ledger{path: path}, nil
}

// Path returns the ledger file location.
func (l *Ledger) Path() string { return l.path }

// Append adds an entry to the ledger.
func (l *Ledger) Append(e Entry) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(data))
	return err
}

// Entries returns all entries, oldest first. Unreadable lines are skipped.
func (l *Ledger) Entries() ([]Entry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// Last returns up to n most recent entries, newest first. n <= 0 yields
// no entries.
func (l *Ledger) Last(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	all, err := l.Entries()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, min(n, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// LastSuccess returns the newest entry with status "complete".
func (l *Ledger) LastSuccess() (*Entry, error) {
	all, err := l.Entries()
	if err != nil {
		return nil, err
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Status == "complete" {
			e := all[i]
			return &e, nil
		}
	}
	return nil, nil
}
