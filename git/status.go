package git

import (
	"strconv"
	"strings"
)

// StatusEntry is one line of `git status --porcelain` (format v1).
type StatusEntry struct {
	// Index is the X column: the state of the path in the index.
	Index byte `json:"index"`

	// Worktree is the Y column: the state of the path in the working tree.
	Worktree byte `json:"worktree"`

	// Path is the current path, relative to the repository root.
	Path string `json:"path"`

	// OrigPath is the source path of a rename or copy.
	OrigPath string `json:"orig_path,omitempty"`
}

// Code returns the two-letter XY status code.
func (e StatusEntry) Code() string {
	return string([]byte{e.Index, e.Worktree})
}

// IsUntracked reports whether the path is not yet known to git.
func (e StatusEntry) IsUntracked() bool {
	return e.Index == '?' && e.Worktree == '?'
}

// IsStaged reports whether the index differs from HEAD for this path.
func (e StatusEntry) IsStaged() bool {
	return e.Index != ' ' && e.Index != '?' && e.Index != '!'
}

// IsModified reports whether the working tree differs from the index.
func (e StatusEntry) IsModified() bool {
	return e.Worktree != ' ' && e.Worktree != '?' && e.Worktree != '!'
}

// String renders the entry the way git prints it.
func (e StatusEntry) String() string {
	if e.OrigPath != "" {
		return e.Code() + " " + e.OrigPath + " -> " + e.Path
	}
	return e.Code() + " " + e.Path
}

// StatusSummary counts entries by kind. An entry that is both staged and
// modified counts towards both.
type StatusSummary struct {
	Total     int `json:"total"`
	Staged    int `json:"staged"`
	Modified  int `json:"modified"`
	Untracked int `json:"untracked"`
}

// Summarize counts the given entries.
func Summarize(entries []StatusEntry) StatusSummary {
	var s StatusSummary
	for _, e := range entries {
		s.Total++
		switch {
		case e.IsUntracked():
			s.Untracked++
		default:
			if e.IsStaged() {
				s.Staged++
			}
			if e.IsModified() {
				s.Modified++
			}
		}
	}
	return s
}

// ParsePorcelain parses the output of `git status --porcelain`. Lines that
// are too short to carry a status code are skipped.
func ParsePorcelain(output string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}

		entry := StatusEntry{Index: line[0], Worktree: line[1]}
		rest := line[3:]

		if entry.Index == 'R' || entry.Index == 'C' || entry.Worktree == 'R' || entry.Worktree == 'C' {
			if orig, dst, ok := splitRename(rest); ok {
				entry.OrigPath = unquotePath(orig)
				rest = dst
			}
		}
		entry.Path = unquotePath(rest)
		entries = append(entries, entry)
	}
	return entries
}

// ChangedLines returns the non-empty lines of porcelain output verbatim.
func ChangedLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitRename(s string) (string, string, bool) {
	// Quoted source paths may themselves contain " -> ".
	if strings.HasPrefix(s, `"`) {
		if end := closingQuote(s); end > 0 && strings.HasPrefix(s[end+1:], " -> ") {
			return s[:end+1], s[end+5:], true
		}
	}
	idx := strings.Index(s, " -> ")
	if idx < 0 {
		return "", s, false
	}
	return s[:idx], s[idx+4:], true
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// unquotePath undoes git's C-style quoting of paths with special characters.
func unquotePath(p string) string {
	if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
		if unquoted, err := strconv.Unquote(p); err == nil {
			return unquoted
		}
	}
	return p
}
