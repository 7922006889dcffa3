package git

import "context"

// Runner executes git with an explicit working directory.
//
// Run returns an error only when the process could not be started. A
// non-zero exit status is reported through Result.ExitCode so callers can
// decide whether it is a failure (for example `rev-parse --git-dir` outside
// a repository is an expected answer, not an error).
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// Result is the outcome of a single git invocation. Stdout and Stderr are
// decoded as UTF-8 with invalid sequences replaced.
type Result struct {
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Success reports whether git exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Diagnostic returns the text that best explains a failure: stderr, or
// stdout when git wrote nothing to stderr.
func (r *Result) Diagnostic() string {
	if r == nil {
		return ""
	}
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}
