package git

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carpe-diem/git-sync/errors"
)

// stubRunner answers by joined argument line and records every call.
type stubRunner struct {
	results map[string]*Result
	spawn   error
	calls   []string
	dirs    []string
}

func (s *stubRunner) Run(_ context.Context, dir string, args ...string) (*Result, error) {
	line := strings.Join(args, " ")
	s.calls = append(s.calls, line)
	s.dirs = append(s.dirs, dir)
	if s.spawn != nil {
		return nil, s.spawn
	}
	if res, ok := s.results[line]; ok {
		return res, nil
	}
	return &Result{Args: args}, nil
}

func TestRepository_IsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("inside a repository", func(t *testing.T) {
		r := NewRepository(&stubRunner{}, "/work")
		ok, err := r.IsRepository(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		stub := &stubRunner{results: map[string]*Result{
			"rev-parse --git-dir": {ExitCode: 128, Stderr: "fatal: not a git repository"},
		}}
		ok, err := NewRepository(stub, "/work").IsRepository(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("spawn failure propagates", func(t *testing.T) {
		stub := &stubRunner{spawn: errors.SpawnFailed("git", assert.AnError)}
		_, err := NewRepository(stub, "/work").IsRepository(ctx)
		assert.True(t, errors.Is(err, errors.ErrCodeSpawnFailed))
	})
}

func TestRepository_ToolFailure(t *testing.T) {
	stub := &stubRunner{results: map[string]*Result{
		"add .": {ExitCode: 128, Stderr: "fatal: pathspec error\n"},
		"init":  {ExitCode: 1, Stdout: "only stdout"},
	}}
	r := NewRepository(stub, "/work")

	err := r.AddAll(context.Background())
	require.Error(t, err)
	syncErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeToolFailed, syncErr.Code)
	assert.Equal(t, "fatal: pathspec error", syncErr.Detail("stderr"))
	assert.Equal(t, "128", syncErr.Detail("exitCode"))
	assert.Equal(t, "/work", syncErr.Detail("dir"))

	err = r.Init(context.Background(), DefaultBranch)
	syncErr, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "only stdout", syncErr.Detail("stderr"))
}

func TestRepository_ReplaceRemote(t *testing.T) {
	stub := &stubRunner{results: map[string]*Result{
		"remote remove origin": {ExitCode: 2, Stderr: "error: No such remote: 'origin'"},
	}}
	r := NewRepository(stub, "/work")

	err := r.ReplaceRemote(context.Background(), "origin", GitHubRemoteURL("octocat/notes"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"remote remove origin",
		"remote add origin https://github.com/octocat/notes.git",
	}, stub.calls)
	assert.Equal(t, []string{"/work", "/work"}, stub.dirs)
}

func TestRepository_Push(t *testing.T) {
	stub := &stubRunner{}
	r := NewRepository(stub, "/work")

	_, err := r.Push(context.Background(), "origin", "main", CredentialHelperArgs("/bin/git-sync")...)
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)
	assert.True(t, strings.HasSuffix(stub.calls[0], " push origin main"))
	assert.True(t, strings.HasPrefix(stub.calls[0], "-c credential.https://github.com.helper= -c "))

	stub.results = map[string]*Result{
		stub.calls[0]: {ExitCode: 128, Stderr: "fatal: Authentication failed"},
	}
	_, err = r.Push(context.Background(), "origin", "main", CredentialHelperArgs("/bin/git-sync")...)
	syncErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "git push origin main exited with status 128: fatal: Authentication failed", syncErr.Message)
}

func TestRepository_CountCommits(t *testing.T) {
	stub := &stubRunner{results: map[string]*Result{
		"rev-list --count origin/main..HEAD": {Stdout: "3\n"},
		"rev-list --count bad":               {Stdout: "nope"},
	}}
	r := NewRepository(stub, "/work")

	n, err := r.CountCommits(context.Background(), "origin/main..HEAD")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = r.CountCommits(context.Background(), "bad")
	assert.True(t, errors.Is(err, errors.ErrCodeToolFailed))
}

func TestRepository_RemoteURL(t *testing.T) {
	stub := &stubRunner{results: map[string]*Result{
		"remote get-url origin":   {Stdout: "https://github.com/octocat/notes.git\n"},
		"remote get-url upstream": {ExitCode: 2},
	}}
	r := NewRepository(stub, "/work")

	url, err := r.RemoteURL(context.Background(), "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octocat/notes.git", url)

	url, err = r.RemoteURL(context.Background(), "upstream")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestRepository_Init(t *testing.T) {
	stub := &stubRunner{}
	r := NewRepository(stub, "/work")

	require.NoError(t, r.Init(context.Background(), DefaultBranch))
	assert.Equal(t, []string{"init", "symbolic-ref HEAD refs/heads/main"}, stub.calls)

	stub.calls = nil
	stub.results = map[string]*Result{"init": {ExitCode: 1, Stderr: "fatal: cannot mkdir"}}
	err := r.Init(context.Background(), DefaultBranch)
	assert.True(t, errors.Is(err, errors.ErrCodeToolFailed))
	assert.Equal(t, []string{"init"}, stub.calls)
}

func TestRepository_RejectsUnsafeArguments(t *testing.T) {
	ctx := context.Background()
	stub := &stubRunner{}
	r := NewRepository(stub, "/work")

	_, err := r.Push(ctx, "--receive-pack=evil", "main")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = r.Push(ctx, "origin", "main..HEAD")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	err = r.AddRemote(ctx, "bad name", "https://github.com/octocat/notes.git")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = r.HasRef(ctx, "-q")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	err = r.Init(ctx, "")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	assert.Empty(t, stub.calls, "nothing reaches git")
}
