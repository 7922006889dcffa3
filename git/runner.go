package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carpe-diem/git-sync/command"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
)

// DefaultBinary is the executable name resolved against PATH.
const DefaultBinary = "git"

// CLIRunner runs the git executable through a command.SafeBuilder. Arguments
// are passed as a vector and never go through a shell.
type CLIRunner struct {
	builder *command.SafeBuilder
	binary  string
	env     []string
	log     *logrus.Entry
}

// RunnerOption configures a CLIRunner.
type RunnerOption func(*CLIRunner)

// WithBinary overrides the git executable.
func WithBinary(path string) RunnerOption {
	return func(r *CLIRunner) { r.binary = path }
}

// WithEnv appends KEY=VALUE pairs to the environment of every invocation.
func WithEnv(env ...string) RunnerOption {
	return func(r *CLIRunner) { r.env = append(r.env, env...) }
}

// NewCLIRunner creates a runner for the git executable on PATH.
func NewCLIRunner(opts ...RunnerOption) *CLIRunner {
	r := &CLIRunner{
		builder: command.NewSafeBuilder(),
		binary:  DefaultBinary,
		log:     logging.NewLogger("git"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available resolves the git executable without running it, so a missing
// git is reported before any work starts.
func (r *CLIRunner) Available() error {
	path, err := r.builder.Executor().LookPath(r.binary)
	if err != nil {
		return errors.SpawnFailed(r.binary, err)
	}
	r.log.WithField("path", path).Debug("git found")
	return nil
}

// Run executes git with args in dir and waits for it to exit.
func (r *CLIRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	cmd, err := r.builder.Build(ctx, r.binary, args...)
	if err != nil {
		return nil, errors.SpawnFailed(r.binary, err)
	}

	execCmd, cancel := cmd.InDir(dir).Exec()
	defer cancel()

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr
	if len(r.env) > 0 {
		execCmd.Env = append(os.Environ(), r.env...)
	}

	start := time.Now()
	runErr := execCmd.Run()

	result := &Result{
		Args:   args,
		Stdout: strings.ToValidUTF8(stdout.String(), "\uFFFD"),
		Stderr: strings.ToValidUTF8(stderr.String(), "\uFFFD"),
	}

	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return nil, errors.SpawnFailed(r.binary, runErr).WithDetail("dir", dir)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.log.WithFields(logrus.Fields{
		"dir":       dir,
		"args":      strings.Join(LogicalArgs(args), " "),
		"exit_code": result.ExitCode,
		"duration":  time.Since(start).String(),
	}).Debug("git finished")

	return result, nil
}
