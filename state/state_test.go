package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/git"
	"github.com/carpe-diem/git-sync/syncer"
)

func TestNewRecord(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	t.Run("synced", func(t *testing.T) {
		rec := NewRecord(&syncer.Report{
			Directory:     "/data/notes",
			Changes:       []git.StatusEntry{{Index: '?', Worktree: '?', Path: "a.md"}},
			Committed:     true,
			CommitMessage: "git-sync: 2024-05-01 10:30:00",
			Pushed:        true,
			StartedAt:     start,
			FinishedAt:    start.Add(1500 * time.Millisecond),
		}, nil)

		assert.Equal(t, ResultSynced, rec.Result)
		assert.Equal(t, start.Add(1500*time.Millisecond), rec.Time)
		assert.Equal(t, 1, rec.Changes)
		assert.Equal(t, "1.5s", rec.Duration)
		assert.Empty(t, rec.Error)
	})

	t.Run("nothing to do", func(t *testing.T) {
		rec := NewRecord(&syncer.Report{Directory: "/data/notes"}, nil)
		assert.Equal(t, ResultNoChanges, rec.Result)
	})

	t.Run("failed", func(t *testing.T) {
		err := errors.ToolFailed("git", []string{"push", "origin", "main"}, 128, "denied")
		rec := NewRecord(&syncer.Report{Committed: true, FailedStep: syncer.StepPush}, err)
		assert.Equal(t, ResultFailed, rec.Result)
		assert.Equal(t, "push", rec.FailedStep)
		assert.Contains(t, rec.Error, "denied")
	})

	t.Run("no report", func(t *testing.T) {
		rec := NewRecord(nil, errors.MissingConfig("x"))
		assert.Equal(t, ResultFailed, rec.Result)
	})
}

func TestRecordAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.yml")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, s.LastSync)

	ok := &SyncRecord{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Result: ResultSynced, Changes: 2}
	require.NoError(t, Record(path, ok))

	failed := &SyncRecord{Time: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), Result: ResultFailed, Error: "boom"}
	require.NoError(t, Record(path, failed))

	s, err = Load(path)
	require.NoError(t, err)
	require.NotNil(t, s.LastSync)
	require.NotNil(t, s.LastSuccess)
	assert.Equal(t, ResultFailed, s.LastSync.Result)
	assert.Equal(t, "boom", s.LastSync.Error)
	assert.Equal(t, ResultSynced, s.LastSuccess.Result)
	assert.True(t, ok.Time.Equal(s.LastSuccess.Time))
	assert.NoFileExists(t, path+".tmp")
}

func TestRecord_ReplacesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yml")
	require.NoError(t, os.WriteFile(path, []byte("last_sync: [unclosed"), 0600))

	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, Record(path, &SyncRecord{Result: ResultNoChanges}))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ResultNoChanges, s.LastSync.Result)
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("GIT_SYNC_HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "state", "state.yml"), path)
}
