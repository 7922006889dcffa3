package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carpe-diem/git-sync/logging"
)

func TestStandardCommandOptions(t *testing.T) {
	t.Setenv("GIT_SYNC_LOG_FILE", "0")
	t.Cleanup(func() { logging.Configure(logging.DefaultConfig()) })

	root := NewStandardCommand("git-sync", "Sync a directory")
	var got CommandOptions
	root.AddCommand(&cobra.Command{
		Use: "sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = GetOptions(cmd)
			return nil
		},
	})

	root.SetArgs([]string{"sync", "-v", "--json", "-c", "/tmp/cfg.json"})
	require.NoError(t, root.Execute())

	assert.Equal(t, CommandOptions{ConfigFile: "/tmp/cfg.json", Verbose: true, JSONOutput: true}, got)
	assert.Equal(t, "debug", logging.CurrentConfig().Level)
	assert.Equal(t, "json", logging.CurrentConfig().Format.Preset)
}

func TestLoggingConfig(t *testing.T) {
	t.Setenv("GIT_SYNC_LOG_LEVEL", "warn")

	cfg := LoggingConfig(CommandOptions{})
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "default", cfg.Format.Preset)

	cfg = LoggingConfig(CommandOptions{Verbose: true})
	assert.Equal(t, "debug", cfg.Level)
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GIT_SYNC_HOME", filepath.Join(home, "gs"))
	t.Setenv(EnvConfigFile, "")

	path, err := CommandOptions{}.ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "gs", "config", "config.json"), path)

	t.Setenv(EnvConfigFile, filepath.Join(home, "env.json"))
	path, err = CommandOptions{}.ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "env.json"), path)

	path, err = CommandOptions{ConfigFile: "~/custom.json"}.ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom.json"), path)
}

func TestStyledHelp(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	root := NewStandardCommand("git-sync", "Sync a directory to GitHub")
	root.AddCommand(&cobra.Command{Use: "sync", Short: "Commit and push changes", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(&cobra.Command{Use: "credential", Hidden: true, Run: func(*cobra.Command, []string) {}})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, " GIT-SYNC\n")
	assert.Contains(t, help, "COMMANDS")
	assert.Contains(t, help, "Commit and push changes")
	assert.Contains(t, help, "-v, --verbose")
	assert.NotContains(t, help, "credential")
}

func TestWrapText(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(wrapText(text, 40), "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
	assert.Equal(t, "a\nb", wrapText("a\nb", 40))
}

func TestParseDescription(t *testing.T) {
	desc, examples := parseDescription("Does things.\n\nExamples:\n  git-sync sync\n")
	assert.Equal(t, "Does things.", desc)
	assert.Equal(t, "git-sync sync", examples)

	desc, examples = parseDescription("Only text")
	assert.Equal(t, "Only text", desc)
	assert.Empty(t, examples)
}
