package cli

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
)

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "missing configuration",
			err:      errors.MissingConfig("/home/u/.config/git-sync/config.json"),
			contains: []string{"✗ No configuration found", "Run 'git-sync setup' first."},
		},
		{
			name:     "invalid configuration",
			err:      errors.ConfigInvalid("missing github_token"),
			contains: []string{"invalid configuration: missing github_token", "git-sync setup"},
		},
		{
			name:     "directory unavailable",
			err:      errors.DirectoryUnavailable("/nope", os.ErrNotExist),
			contains: []string{"Cannot use directory /nope", "config show"},
		},
		{
			name:     "push failure",
			err:      errors.ToolFailed("git", []string{"push", "origin", "main"}, 128, "fatal: Authentication failed"),
			contains: []string{"git push origin main exited with status 128: fatal: Authentication failed", "github_token"},
		},
		{
			name:     "git missing",
			err:      errors.SpawnFailed("git", os.ErrNotExist),
			contains: []string{"could not start git", "installed"},
		},
		{
			name:     "wrapped code is still recognised",
			err:      fmt.Errorf("sync: %w", errors.MissingConfig("x")),
			contains: []string{"Run 'git-sync setup' first."},
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			contains: []string{"✗ Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}

			assert.Equal(t, tt.err, h.Handle(tt.err))
			out := logging.StripANSI(buf.String())
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "Error details")
		})
	}
}

func TestErrorHandler_VerboseDetails(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}

	h.Handle(errors.ToolFailed("git", []string{"commit", "-m", "x"}, 1, "nothing added"))
	out := buf.String()
	assert.Contains(t, out, "Error details:")
	assert.Contains(t, out, `"code": "EXTERNAL_TOOL_FAILURE"`)
	assert.Contains(t, out, `"exitCode": 1`)
}

func TestErrorHandler_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, (&ErrorHandler{Out: &buf}).Handle(nil))
	assert.Empty(t, buf.String())
}
