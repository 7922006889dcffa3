package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/carpe-diem/git-sync/command"
	"github.com/carpe-diem/git-sync/errors"
)

// Repository runs typed git operations against one working directory.
type Repository struct {
	runner  Runner
	dir     string
	builder *command.SafeBuilder
}

// NewRepository binds runner to dir. Every operation passes dir to the
// runner, so the process working directory is never changed.
func NewRepository(runner Runner, dir string) *Repository {
	return &Repository{runner: runner, dir: dir, builder: command.NewSafeBuilder()}
}

// check rejects remote names and refs that could be read as options or
// revision ranges.
func (r *Repository) check(argType, value string) error {
	if err := r.builder.Validate(argType, value); err != nil {
		return errors.InvalidInput(err.Error()).WithDetail("dir", r.dir)
	}
	return nil
}

// Dir returns the working directory.
func (r *Repository) Dir() string { return r.dir }

// run executes git and turns a non-zero exit into EXTERNAL_TOOL_FAILURE.
func (r *Repository) run(ctx context.Context, args ...string) (*Result, error) {
	res, err := r.runner.Run(ctx, r.dir, args...)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return res, errors.ToolFailed(DefaultBinary, LogicalArgs(args), res.ExitCode, res.Diagnostic()).
			WithDetail("dir", r.dir)
	}
	return res, nil
}

// IsRepository reports whether dir is inside a git work tree. A non-zero
// exit from `rev-parse --git-dir` means "no"; only a spawn failure is an error.
func (r *Repository) IsRepository(ctx context.Context) (bool, error) {
	res, err := r.runner.Run(ctx, r.dir, "rev-parse", "--git-dir")
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

// Init creates an empty repository in dir whose unborn HEAD is branch,
// whatever init.defaultBranch says.
func (r *Repository) Init(ctx context.Context, branch string) error {
	if err := r.check("gitRef", branch); err != nil {
		return err
	}
	if _, err := r.run(ctx, "init"); err != nil {
		return err
	}
	_, err := r.run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+branch)
	return err
}

// RemoveRemote removes a remote. A missing remote is reported through the
// returned Result rather than as an error so callers can ignore it.
func (r *Repository) RemoveRemote(ctx context.Context, name string) (*Result, error) {
	if err := r.check("remoteName", name); err != nil {
		return nil, err
	}
	return r.runner.Run(ctx, r.dir, "remote", "remove", name)
}

// AddRemote registers a remote.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	if err := r.check("remoteName", name); err != nil {
		return err
	}
	_, err := r.run(ctx, "remote", "add", name, url)
	return err
}

// ReplaceRemote removes name if present, then adds it pointing at url.
func (r *Repository) ReplaceRemote(ctx context.Context, name, url string) error {
	if _, err := r.RemoveRemote(ctx, name); err != nil {
		return err
	}
	return r.AddRemote(ctx, name, url)
}

// StatusPorcelain returns the raw `git status --porcelain` output.
func (r *Repository) StatusPorcelain(ctx context.Context) (string, error) {
	res, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// AddAll stages every change under dir.
func (r *Repository) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", ".")
	return err
}

// Commit records the index with message and returns git's summary output.
func (r *Repository) Commit(ctx context.Context, message string) (string, error) {
	res, err := r.run(ctx, "commit", "-m", message)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Push pushes branch to remote. configArgs are placed before the subcommand
// as `-c key=value` pairs, e.g. from CredentialHelperArgs.
func (r *Repository) Push(ctx context.Context, remote, branch string, configArgs ...string) (*Result, error) {
	if err := r.check("remoteName", remote); err != nil {
		return nil, err
	}
	if err := r.check("gitRef", branch); err != nil {
		return nil, err
	}
	args := append(append([]string{}, configArgs...), "push", remote, branch)
	return r.run(ctx, args...)
}

// HasRef reports whether ref resolves to an object.
func (r *Repository) HasRef(ctx context.Context, ref string) (bool, error) {
	if err := r.check("gitRef", ref); err != nil {
		return false, err
	}
	res, err := r.runner.Run(ctx, r.dir, "rev-parse", "--verify", "--quiet", ref)
	if err != nil {
		return false, err
	}
	return res.Success(), nil
}

// CountCommits returns the number of commits in the revision range.
func (r *Repository) CountCommits(ctx context.Context, revRange string) (int, error) {
	res, err := r.run(ctx, "rev-list", "--count", revRange)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(res.Stdout))
	if convErr != nil {
		return 0, errors.ToolFailed(DefaultBinary, []string{"rev-list", "--count", revRange}, 0,
			"unexpected output: "+strings.TrimSpace(res.Stdout))
	}
	return n, nil
}

// RemoteURL returns the configured URL of a remote, or "" when it is absent.
func (r *Repository) RemoteURL(ctx context.Context, name string) (string, error) {
	if err := r.check("remoteName", name); err != nil {
		return "", err
	}
	res, err := r.runner.Run(ctx, r.dir, "remote", "get-url", name)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", nil
	}
	return strings.TrimSpace(res.Stdout), nil
}
