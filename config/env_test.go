package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Run("no variables", func(t *testing.T) {
		t.Setenv(EnvGitHubToken, "")
		t.Setenv(EnvGitHubRepo, "")
		t.Setenv(EnvDirectoryPath, "")

		cfg := &Config{GitHubRepo: "a/b"}
		fields, err := ApplyEnv(cfg)
		require.NoError(t, err)
		assert.Empty(t, fields)
		assert.Equal(t, &Config{GitHubRepo: "a/b"}, cfg)
	})

	t.Run("overrides only set variables", func(t *testing.T) {
		t.Setenv(EnvGitHubToken, " from-env ")
		t.Setenv(EnvGitHubRepo, "")
		t.Setenv(EnvDirectoryPath, "/env/notes")

		cfg := &Config{GitHubToken: "file", GitHubRepo: "a/b", DirectoryPath: "/file"}
		fields, err := ApplyEnv(cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{FieldGitHubToken, FieldDirectoryPath}, fields)
		assert.Equal(t, &Config{GitHubToken: "from-env", GitHubRepo: "a/b", DirectoryPath: "/env/notes"}, cfg)
	})
}

func TestApplyEnvLookup(t *testing.T) {
	env := map[string]string{EnvGitHubRepo: "x/y"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	fields, err := applyEnv(cfg, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldGitHubRepo}, fields)
	assert.Equal(t, "x/y", cfg.GitHubRepo)
}
