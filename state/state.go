// Package state records the outcome of recent syncs for `git-sync status`.
package state

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/pkg/paths"
	"github.com/carpe-diem/git-sync/syncer"
)

// Sync results.
const (
	ResultSynced    = "synced"
	ResultNoChanges = "no_changes"
	ResultFailed    = "failed"
)

// SyncRecord summarizes one sync.
type SyncRecord struct {
	Time          time.Time `yaml:"time" json:"time"`
	Directory     string    `yaml:"directory,omitempty" json:"directory,omitempty"`
	Result        string    `yaml:"result" json:"result"`
	Changes       int       `yaml:"changes" json:"changes"`
	CommitMessage string    `yaml:"commit_message,omitempty" json:"commit_message,omitempty"`
	Pushed        bool      `yaml:"pushed" json:"pushed"`
	FailedStep    string    `yaml:"failed_step,omitempty" json:"failed_step,omitempty"`
	Error         string    `yaml:"error,omitempty" json:"error,omitempty"`
	Duration      string    `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// State is the content of the state file.
type State struct {
	LastSync    *SyncRecord `yaml:"last_sync,omitempty" json:"last_sync,omitempty"`
	LastSuccess *SyncRecord `yaml:"last_success,omitempty" json:"last_success,omitempty"`
}

// NewRecord builds the record for a finished sync.
func NewRecord(report *syncer.Report, err error) *SyncRecord {
	rec := &SyncRecord{Time: time.Now(), Result: ResultNoChanges}
	if report != nil {
		if !report.FinishedAt.IsZero() {
			rec.Time = report.FinishedAt
		}
		rec.Directory = report.Directory
		rec.Changes = len(report.Changes)
		rec.CommitMessage = report.CommitMessage
		rec.Pushed = report.Pushed
		rec.FailedStep = string(report.FailedStep)
		if d := report.Duration(); d > 0 {
			rec.Duration = d.Round(time.Millisecond).String()
		}
		if report.Committed || report.Pushed {
			rec.Result = ResultSynced
		}
	}
	if err != nil {
		rec.Result = ResultFailed
		rec.Error = err.Error()
	}
	return rec
}

// DefaultPath returns the state file under the git-sync state directory.
func DefaultPath() (string, error) {
	path, err := paths.StateFile()
	if err != nil {
		return "", errors.ConfigPathUnresolvable(err)
	}
	return path, nil
}

// Load reads the state at path. A missing file yields an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, errors.IOFailure("read", path, err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "parse state file").WithDetail("path", path)
	}
	return &s, nil
}

// Save writes s to path, replacing it atomically.
func Save(path string, s *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.IOFailure("create", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIO, "marshal state")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.IOFailure("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.IOFailure("rename", tmp, err)
	}
	return nil
}

// Record stores rec as the last sync, and as the last success unless it
// failed. An unreadable state file is replaced.
func Record(path string, rec *SyncRecord) error {
	s, err := Load(path)
	if err != nil {
		s = &State{}
	}
	s.LastSync = rec
	if rec.Result != ResultFailed {
		s.LastSuccess = rec
	}
	return Save(path, s)
}
