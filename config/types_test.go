package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carpe-diem/git-sync/errors"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", MaskToken(""))
	assert.Equal(t, "****", MaskToken("abc"))
	assert.Equal(t, "****", MaskToken("abcd"))
	assert.Equal(t, "****3456", MaskToken("ghp_abcdef123456"))
}

func TestRedacted(t *testing.T) {
	cfg := &Config{GitHubToken: "ghp_abcdef123456", GitHubRepo: "a/b", DirectoryPath: "/d"}
	red := cfg.Redacted()

	assert.Equal(t, "****3456", red.GitHubToken)
	assert.Equal(t, "a/b", red.GitHubRepo)
	assert.Equal(t, "ghp_abcdef123456", cfg.GitHubToken, "original must not change")
}

func TestMerge(t *testing.T) {
	base := &Config{GitHubToken: "old", GitHubRepo: "a/b", DirectoryPath: "/d"}

	got := Merge(base, &Config{GitHubRepo: "  c/d \n", DirectoryPath: "   "})
	assert.Equal(t, &Config{GitHubToken: "old", GitHubRepo: "c/d", DirectoryPath: "/d"}, got)
	assert.Equal(t, "a/b", base.GitHubRepo)

	assert.Equal(t, base, Merge(base, nil))
	assert.Equal(t, &Config{GitHubRepo: "x/y"}, Merge(nil, &Config{GitHubRepo: "x/y"}))
}

func TestValidate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		cfg := &Config{GitHubToken: "t", GitHubRepo: "octocat/notes", DirectoryPath: "/d"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing fields are named", func(t *testing.T) {
		err := (&Config{GitHubRepo: "a/b"}).Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
		assert.Contains(t, err.Error(), "github_token")
		assert.Contains(t, err.Error(), "directory_path")
		assert.NotContains(t, err.Error(), "github_repo")
	})

	t.Run("bad repository slug", func(t *testing.T) {
		err := (&Config{GitHubToken: "t", GitHubRepo: "https://github.com/a/b", DirectoryPath: "/d"}).Validate()
		require.Error(t, err)
		syncErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, "github_repo", syncErr.Detail("field"))
	})
}
