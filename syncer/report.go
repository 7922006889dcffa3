package syncer

import (
	"time"

	"github.com/carpe-diem/git-sync/git"
)

// Step names a stage of the sync sequence.
type Step string

const (
	StepChangeDirectory  Step = "change_directory"
	StepEnsureRepository Step = "ensure_repository"
	StepInspect          Step = "inspect"
	StepPushPending      Step = "push_pending"
	StepStage            Step = "stage"
	StepCommit           Step = "commit"
	StepPush             Step = "push"
	StepDone             Step = "done"
)

// Report describes what one Run did. On failure it holds the progress made
// before FailedStep; completed steps are never rolled back.
type Report struct {
	Directory      string            `json:"directory"`
	Initialized    bool              `json:"initialized"`
	Changes        []git.StatusEntry `json:"changes,omitempty"`
	Committed      bool              `json:"committed"`
	CommitMessage  string            `json:"commit_message,omitempty"`
	CommitOutput   string            `json:"commit_output,omitempty"`
	Pushed         bool              `json:"pushed"`
	PushedPending  bool              `json:"pushed_pending"`
	PendingCommits int               `json:"pending_commits,omitempty"`
	FailedStep     Step              `json:"failed_step,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
}

// HasChanges reports whether the working tree had anything to commit.
func (r *Report) HasChanges() bool {
	return len(r.Changes) > 0
}

// Summary counts the detected changes by kind.
func (r *Report) Summary() git.StatusSummary {
	return git.Summarize(r.Changes)
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
