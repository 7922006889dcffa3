package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePorcelain(t *testing.T) {
	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, ParsePorcelain(""))
		assert.Empty(t, ParsePorcelain("\n"))
	})

	t.Run("mixed entries", func(t *testing.T) {
		out := " M notes.md\n?? new.txt\nA  staged.go\nMM both.go\n D gone.txt\n"
		entries := ParsePorcelain(out)
		require.Len(t, entries, 5)

		assert.Equal(t, " M", entries[0].Code())
		assert.Equal(t, "notes.md", entries[0].Path)
		assert.True(t, entries[0].IsModified())
		assert.False(t, entries[0].IsStaged())

		assert.True(t, entries[1].IsUntracked())
		assert.Equal(t, "new.txt", entries[1].Path)

		assert.True(t, entries[2].IsStaged())
		assert.False(t, entries[2].IsModified())

		assert.True(t, entries[3].IsStaged())
		assert.True(t, entries[3].IsModified())

		assert.Equal(t, "gone.txt", entries[4].Path)
	})

	t.Run("rename", func(t *testing.T) {
		entries := ParsePorcelain("R  old name.txt -> new name.txt\n")
		require.Len(t, entries, 1)
		assert.Equal(t, "old name.txt", entries[0].OrigPath)
		assert.Equal(t, "new name.txt", entries[0].Path)
		assert.Equal(t, "R  old name.txt -> new name.txt", entries[0].String())
	})

	t.Run("quoted paths", func(t *testing.T) {
		entries := ParsePorcelain("?? \"caf\\303\\251.md\"\nR  \"a -> b\" -> c\n")
		require.Len(t, entries, 2)
		assert.Equal(t, "café.md", entries[0].Path)
		assert.Equal(t, "a -> b", entries[1].OrigPath)
		assert.Equal(t, "c", entries[1].Path)
	})

	t.Run("windows line endings", func(t *testing.T) {
		entries := ParsePorcelain("?? a.txt\r\n?? b.txt\r\n")
		require.Len(t, entries, 2)
		assert.Equal(t, "b.txt", entries[1].Path)
	})
}

func TestSummarize(t *testing.T) {
	entries := ParsePorcelain("?? a\n?? b\nM  c\n M d\nMM e\n")
	s := Summarize(entries)
	assert.Equal(t, StatusSummary{Total: 5, Staged: 2, Modified: 2, Untracked: 2}, s)
}

func TestChangedLines(t *testing.T) {
	lines := ChangedLines(" M notes.md\n\n?? new.txt\n")
	assert.Equal(t, []string{" M notes.md", "?? new.txt"}, lines)
	assert.Empty(t, ChangedLines("  \n"))
}
