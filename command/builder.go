package command

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// MaxTimeout is the maximum allowed timeout. A zero timeout means the
// command runs until it exits or its context is cancelled.
const MaxTimeout = 10 * time.Minute

var (
	gitRefPattern     = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)
	remoteNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
	repoSlugPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+$`)
)

// SafeBuilder builds commands from argument vectors, never through a shell.
// Callers check user-supplied values with Validate before putting them on a
// command line.
type SafeBuilder struct {
	timeout    time.Duration
	validators map[string]func(string) error
	executor   Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		validators: makeDefaultValidators(),
		executor:   exec,
	}
}

// Executor returns the executor commands are created with.
func (sb *SafeBuilder) Executor() Executor {
	return sb.executor
}

// WithTimeout sets a default timeout applied to every built command.
func (sb *SafeBuilder) WithTimeout(timeout time.Duration) *SafeBuilder {
	sb.timeout = clampTimeout(timeout)
	return sb
}

func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"gitRef":     ValidateGitRef,
		"remoteName": ValidateRemoteName,
		"repoSlug":   ValidateRepoSlug,
	}
}

// ValidateGitRef ensures git references are safe
func ValidateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git ref cannot be empty")
	}
	if !gitRefPattern.MatchString(ref) || strings.Contains(ref, "..") || strings.HasPrefix(ref, "-") {
		return fmt.Errorf("invalid git ref: %s", ref)
	}
	return nil
}

// ValidateRemoteName ensures remote names are safe
func ValidateRemoteName(name string) error {
	if name == "" {
		return fmt.Errorf("remote name cannot be empty")
	}
	if !remoteNamePattern.MatchString(name) {
		return fmt.Errorf("invalid remote name: %s", name)
	}
	return nil
}

// ValidateRepoSlug ensures a GitHub repository is given as owner/name
func ValidateRepoSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	if !repoSlugPattern.MatchString(slug) || strings.HasSuffix(slug, ".git") {
		return fmt.Errorf("invalid repository %q (expected owner/name)", slug)
	}
	return nil
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	return validator(value)
}

// Command represents a safe command configuration
type Command struct {
	ctx      context.Context
	name     string
	args     []string
	dir      string
	timeout  time.Duration
	executor Executor
}

// Build creates a new command. The arguments are passed through unchanged.
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &Command{
		ctx:      ctx,
		name:     name,
		args:     args,
		timeout:  sb.timeout,
		executor: sb.executor,
	}, nil
}

// InDir sets the working directory the command runs in.
func (c *Command) InDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithTimeout sets a custom timeout for the command
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	c.timeout = clampTimeout(timeout)
	return c
}

// Name returns the executable name.
func (c *Command) Name() string { return c.name }

// Args returns the argument vector without the executable name.
func (c *Command) Args() []string { return c.args }

// Exec creates the exec.Cmd. The returned cancel func releases the timeout
// context and must be called once the command has finished.
func (c *Command) Exec() (*exec.Cmd, context.CancelFunc) {
	ctx, cancel := c.ctx, context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
	}

	cmd := c.executor.CommandContext(ctx, c.name, c.args...) //nolint:gosec // argv only, no shell
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	return cmd, cancel
}

func clampTimeout(timeout time.Duration) time.Duration {
	if timeout < 0 {
		return 0
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}
