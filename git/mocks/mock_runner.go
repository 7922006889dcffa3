package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/carpe-diem/git-sync/git"
)

// Call records one invocation of MockRunner.Run.
type Call struct {
	Dir  string
	Args []string
}

// Line returns the arguments joined with spaces, e.g. "status --porcelain".
func (c Call) Line() string {
	return strings.Join(c.Args, " ")
}

// MockRunner is a mock implementation of git.Runner for testing.
//
// RunFunc, when set, decides every result. Otherwise Responses is consulted
// by the joined argument line and unknown commands succeed with no output.
type MockRunner struct {
	RunFunc   func(ctx context.Context, dir string, args ...string) (*git.Result, error)
	Responses map[string]*git.Result

	mu    sync.Mutex
	calls []Call
}

// Run records the call and returns the mocked result.
func (m *MockRunner) Run(ctx context.Context, dir string, args ...string) (*git.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Dir: dir, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, args...)
	}
	if res, ok := m.Responses[strings.Join(args, " ")]; ok {
		out := *res
		out.Args = args
		return &out, nil
	}
	return &git.Result{Args: args}, nil
}

// Calls returns a copy of the recorded calls in order.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Lines returns the recorded argument lines in order.
func (m *MockRunner) Lines() []string {
	var lines []string
	for _, c := range m.Calls() {
		lines = append(lines, c.Line())
	}
	return lines
}

// Called reports whether a call with exactly this argument line was made.
func (m *MockRunner) Called(line string) bool {
	for _, c := range m.Calls() {
		if c.Line() == line {
			return true
		}
	}
	return false
}

// Reset clears the recorded calls.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// Fail returns a result with a non-zero exit status and stderr text.
func Fail(exitCode int, stderr string) *git.Result {
	return &git.Result{ExitCode: exitCode, Stderr: stderr}
}

// Output returns a successful result with stdout text.
func Output(stdout string) *git.Result {
	return &git.Result{Stdout: stdout}
}
