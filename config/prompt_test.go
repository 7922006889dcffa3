package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("  octocat/notes  \n\nsecret\n"), &out)

	got, err := p.Prompt("Repo", "")
	require.NoError(t, err)
	assert.Equal(t, "octocat/notes", got)

	got, err = p.Prompt("Dir", "/notes")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = p.PromptSecret("Token", "ghp_abcdef123456")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	assert.Equal(t, "Repo: Dir [/notes]: Token [****3456]: ", out.String())
}

func TestLinePrompterEOF(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("partial"), &bytes.Buffer{})

	got, err := p.Prompt("A", "")
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	got, err = p.Prompt("B", "keep")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestSetup(t *testing.T) {
	t.Run("first run", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "config.json"))
		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader("tok\noctocat/notes\n/home/u/notes\n"), &out)

		cfg, err := s.Setup(p)
		require.NoError(t, err)
		assert.Equal(t, &Config{GitHubToken: "tok", GitHubRepo: "octocat/notes", DirectoryPath: "/home/u/notes"}, cfg)

		loaded, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
		assert.Contains(t, out.String(), TokenPrompt+": ")
	})

	t.Run("empty answers keep previous values", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, s.Save(&Config{GitHubToken: "old-token", GitHubRepo: "a/b", DirectoryPath: "/old"}))

		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader("\nc/d\n\n"), &out)

		cfg, err := s.Setup(p)
		require.NoError(t, err)
		assert.Equal(t, &Config{GitHubToken: "old-token", GitHubRepo: "c/d", DirectoryPath: "/old"}, cfg)
		assert.Contains(t, out.String(), RepoPrompt+" [a/b]: ")
		assert.Contains(t, out.String(), DirectoryPrompt+" [/old]: ")
		assert.NotContains(t, out.String(), "old-token")
	})

	t.Run("no input keeps everything", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "config.json"))
		prev := &Config{GitHubToken: "t", GitHubRepo: "a/b", DirectoryPath: "/d"}
		require.NoError(t, s.Save(prev))

		cfg, err := s.Setup(NewLinePrompter(strings.NewReader(""), &bytes.Buffer{}))
		require.NoError(t, err)
		assert.Equal(t, prev, cfg)
	})
}
