package syncer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carpe-diem/git-sync/config"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/git"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/util/pathutil"
)

// CommitPrefix starts every commit message created by a sync.
const CommitPrefix = "git-sync: "

// CommitMessage returns the message for a commit made at t, in local time.
func CommitMessage(t time.Time) string {
	return CommitPrefix + t.Local().Format("2006-01-02 15:04:05")
}

// Orchestrator runs the sync sequence for one configuration.
type Orchestrator struct {
	cfg         *config.Config
	runner      git.Runner
	now         func() time.Time
	pendingPush bool
	helperPath  string
	remote      string
	branch      string
	ulog        *logging.UnifiedLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now, used for the commit timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithPendingPush enables or disables pushing commits that a previous run
// committed but failed to push.
func WithPendingPush(enabled bool) Option {
	return func(o *Orchestrator) { o.pendingPush = enabled }
}

// WithCredentialHelper makes push ask the executable at path for
// github.com credentials. It only takes effect when a token is configured.
func WithCredentialHelper(path string) Option {
	return func(o *Orchestrator) { o.helperPath = path }
}

// New creates an orchestrator. cfg is copied and never modified.
func New(cfg *config.Config, runner git.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:         cfg.Clone(),
		runner:      runner,
		now:         time.Now,
		pendingPush: true,
		remote:      git.DefaultRemote,
		branch:      git.DefaultBranch,
		ulog:        logging.NewUnifiedLogger("syncer"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes ChangeDirectory, EnsureRepository and Inspect, then either
// stops (nothing to do, or only a pending push) or stages, commits and
// pushes. It stops at the first failure. The report is returned in both
// cases.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: o.now()}
	err := o.run(ctx, report)
	report.FinishedAt = o.now()

	if err != nil {
		o.ulog.Error("Sync failed").
			Err(err).
			Field("step", string(report.FailedStep)).
			Field("directory", report.Directory).
			StructuredOnly().
			Log(ctx)
		return report, err
	}
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, report *Report) error {
	fail := func(step Step, err error) error {
		report.FailedStep = step
		return err
	}

	if err := o.cfg.Validate(); err != nil {
		return fail(StepChangeDirectory, err)
	}

	// ChangeDirectory
	dir, err := ResolveDirectory(o.cfg.DirectoryPath)
	if err != nil {
		return fail(StepChangeDirectory, err)
	}
	report.Directory = dir
	o.ulog.Info(fmt.Sprintf("Synchronizing directory: %s", dir)).
		Field("directory", dir).
		Field("repo", o.cfg.GitHubRepo).
		Log(ctx)

	repo := git.NewRepository(o.runner, dir)

	// EnsureRepository
	initialized, err := o.ensureRepository(ctx, repo)
	if err != nil {
		return fail(StepEnsureRepository, err)
	}
	report.Initialized = initialized

	// Inspect
	status, err := repo.StatusPorcelain(ctx)
	if err != nil {
		return fail(StepInspect, err)
	}
	report.Changes = git.ParsePorcelain(status)

	if !report.HasChanges() {
		o.ulog.Success("Nothing to synchronize").Log(ctx)
		if err := o.pushPending(ctx, repo, report); err != nil {
			return fail(StepPushPending, err)
		}
		return nil
	}

	summary := report.Summary()
	o.ulog.Info("Changed files:").
		Detail(strings.Join(git.ChangedLines(status), "\n")).
		Field("changes", summary.Total).
		Field("untracked", summary.Untracked).
		Log(ctx)

	// Stage
	o.ulog.Progress("Adding changes...").Log(ctx)
	if err := repo.AddAll(ctx); err != nil {
		return fail(StepStage, err)
	}

	// Commit
	message := CommitMessage(o.now())
	o.ulog.Progress("Committing changes...").Field("message", message).Log(ctx)
	out, err := repo.Commit(ctx, message)
	if err != nil {
		return fail(StepCommit, err)
	}
	report.Committed = true
	report.CommitMessage = message
	report.CommitOutput = strings.TrimSpace(out)
	o.ulog.Debug("Commit created").Detail(report.CommitOutput).Log(ctx)

	// Push
	if err := o.push(ctx, repo); err != nil {
		return fail(StepPush, err)
	}
	report.Pushed = true

	o.ulog.Success("Synchronization complete").
		Field("changes", summary.Total).
		Field("message", message).
		Log(ctx)
	return nil
}

// ensureRepository initializes dir and points origin at the configured
// GitHub repository when dir is not yet a repository.
func (o *Orchestrator) ensureRepository(ctx context.Context, repo *git.Repository) (bool, error) {
	isRepo, err := repo.IsRepository(ctx)
	if err != nil {
		return false, err
	}
	if isRepo {
		o.checkRemote(ctx, repo)
		return false, nil
	}

	o.ulog.Progress("Initializing git repository...").Log(ctx)
	if err := repo.Init(ctx, o.branch); err != nil {
		return false, err
	}
	url := git.GitHubRemoteURL(o.cfg.GitHubRepo)
	if err := repo.ReplaceRemote(ctx, o.remote, url); err != nil {
		return false, err
	}
	o.ulog.Success("Git repository initialized").Field("remote", url).Log(ctx)
	return true, nil
}

// checkRemote warns when an existing repository's origin points at a
// different GitHub repository than the configured one. It never fails.
func (o *Orchestrator) checkRemote(ctx context.Context, repo *git.Repository) {
	url, err := repo.RemoteURL(ctx, o.remote)
	if err != nil || url == "" {
		return
	}
	slug := git.RepoSlugFromURL(url)
	if slug == "" || strings.EqualFold(slug, strings.TrimSpace(o.cfg.GitHubRepo)) {
		return
	}
	o.ulog.Warn(fmt.Sprintf("Remote %s points at %s, not %s; pushing there anyway", o.remote, slug, o.cfg.GitHubRepo)).
		Field("remote_url", url).
		Log(ctx)
}

func (o *Orchestrator) push(ctx context.Context, repo *git.Repository) error {
	o.ulog.Progress("Pushing to remote...").
		Field("remote", o.remote).
		Field("branch", o.branch).
		Log(ctx)

	var configArgs []string
	if o.cfg.GitHubToken != "" {
		configArgs = git.CredentialHelperArgs(o.helperPath)
	}
	res, err := repo.Push(ctx, o.remote, o.branch, configArgs...)
	if err != nil {
		return err
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		o.ulog.Debug("Push output").Detail(out).Log(ctx)
	}
	return nil
}

// pushPending pushes commits left behind by an earlier failed push. Only
// local refs are consulted. Without a remote-tracking ref the branch has
// never been pushed, so every commit on HEAD is pending.
func (o *Orchestrator) pushPending(ctx context.Context, repo *git.Repository, report *Report) error {
	if !o.pendingPush {
		return nil
	}

	log := o.ulog.WithStructured()
	trackingRef := fmt.Sprintf("refs/remotes/%s/%s", o.remote, o.branch)
	revRange := fmt.Sprintf("%s/%s..HEAD", o.remote, o.branch)
	has, err := repo.HasRef(ctx, trackingRef)
	if err != nil {
		log.WithError(err).WithField("ref", trackingRef).Debug("Could not resolve remote-tracking ref")
		return nil
	}
	if !has {
		hasHead, err := repo.HasRef(ctx, "HEAD")
		if err != nil || !hasHead {
			log.WithError(err).Debug("No commits yet; nothing to push")
			return nil
		}
		revRange = "HEAD"
	}

	ahead, err := repo.CountCommits(ctx, revRange)
	if err != nil {
		log.WithError(err).Debug("Could not count unpushed commits")
		return nil
	}
	if ahead == 0 {
		return nil
	}

	o.ulog.Warn(fmt.Sprintf("%d commit(s) not yet pushed", ahead)).Field("pending", ahead).Log(ctx)
	if err := o.push(ctx, repo); err != nil {
		return err
	}
	report.Pushed = true
	report.PushedPending = true
	report.PendingCommits = ahead
	o.ulog.Success("Pending commits pushed").Field("pending", ahead).Log(ctx)
	return nil
}

// ResolveDirectory expands path and checks that it is an accessible
// directory. The process working directory is not changed.
func ResolveDirectory(path string) (string, error) {
	dir, err := pathutil.Expand(path)
	if err != nil {
		return "", errors.DirectoryUnavailable(path, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.DirectoryUnavailable(dir, err)
	}
	if !info.IsDir() {
		return "", errors.DirectoryUnavailable(dir, fmt.Errorf("not a directory"))
	}
	f, err := os.Open(dir)
	if err != nil {
		return "", errors.DirectoryUnavailable(dir, err)
	}
	_ = f.Close()
	return dir, nil
}
