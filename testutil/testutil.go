package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test if the git executable is not available
func RequireGit(t *testing.T) {
	t.Helper()

	if err := exec.Command("git", "--version").Run(); err != nil {
		t.Skip("git not available")
	}
}

// IsolateGit points git at a throwaway global configuration with a
// committer identity and `main` as the default branch, so tests behave the
// same regardless of the user's own settings. It returns the config path.
func IsolateGit(t *testing.T) string {
	t.Helper()
	return IsolateGitWithDefaultBranch(t, "main")
}

// IsolateGitWithDefaultBranch is IsolateGit with init.defaultBranch set to
// branch. An empty branch leaves it unset.
func IsolateGitWithDefaultBranch(t *testing.T, branch string) string {
	t.Helper()
	RequireGit(t)

	home := t.TempDir()
	cfgPath := filepath.Join(home, ".gitconfig")
	content := "[user]\n\tname = Test User\n\temail = test@example.com\n" +
		"[commit]\n\tgpgsign = false\n"
	if branch != "" {
		content += "[init]\n\tdefaultBranch = " + branch + "\n"
	}
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_GLOBAL", cfgPath)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_TERMINAL_PROMPT", "0")
	return cfgPath
}

// BareRemote creates a bare repository and rewrites the GitHub URL of slug
// to it through `url.<bare>.insteadOf`, so a push to
// https://github.com/<slug>.git lands locally. IsolateGit must run first.
func BareRemote(t *testing.T, slug string) string {
	t.Helper()

	bare := filepath.Join(t.TempDir(), "remote.git")
	RunGitCommand(t, "", "init", "--bare", "--initial-branch=main", bare)
	RunGitCommand(t, "", "config", "--global",
		"url."+bare+".insteadOf", "https://github.com/"+slug+".git")
	return bare
}

// InitGitRepo initializes a git repository in the given directory with an
// initial commit on main
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()

	RunGitCommand(t, dir, "init")
	RunGitCommand(t, dir, "config", "user.name", "Test User")
	RunGitCommand(t, dir, "config", "user.email", "test@example.com")
	CreateCommit(t, dir, "README.md", "# Test Project\n")

	// Ensure we have a main branch (rename from master if needed)
	cmd := exec.Command("git", "branch", "-m", "main")
	cmd.Dir = dir
	_ = cmd.Run()
}

// RunGitCommand runs a git command in the given directory and returns its
// trimmed stdout
func RunGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("Failed to run git %v: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(string(output))
}

// WriteFile writes content to dir/name, creating parent directories
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// CreateCommit creates a file and commits it
func CreateCommit(t *testing.T, dir, filename, content string) {
	t.Helper()

	WriteFile(t, dir, filename, content)
	RunGitCommand(t, dir, "add", filename)
	RunGitCommand(t, dir, "commit", "-m", "Add "+filename)
}

// CommitCount returns the number of commits reachable from ref
func CommitCount(t *testing.T, dir, ref string) int {
	t.Helper()

	n, err := strconv.Atoi(RunGitCommand(t, dir, "rev-list", "--count", ref))
	require.NoError(t, err)
	return n
}
