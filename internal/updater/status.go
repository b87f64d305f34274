package updater

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// Status is the outcome of an update attempt.
type Status int

const (
	// Complete means the new catalog and version token were committed.
	Complete Status = iota
	// Incomplete means persistence had started when the attempt failed;
	// every write was rolled back.
	Incomplete
	// Failed means the attempt stopped before anything was written.
	Failed
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Incomplete:
		return "incomplete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stage names a step of the pipeline, reported through Config.OnStage.
type Stage string

const (
	StageBackup   Stage = "backup"
	StageFetch    Stage = "fetch"
	StageParse    Stage = "parse"
	StagePersist  Stage = "persist"
	StageCommit   Stage = "commit"
	StageRollback Stage = "rollback"
	StageDone     Stage = "done"
)

// Result describes one update attempt.
type Result struct {
	AttemptID string         `json:"attempt"`
	Status    Status         `json:"status"`
	Version   string         `json:"version,omitempty"`
	Counts    catalog.Counts `json:"counts"`
	Err       error          `json:"-"`
	Started   time.Time      `json:"started"`
	Finished  time.Time      `json:"finished"`
}

// Error returns the failure message, or "" for a committed attempt.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
