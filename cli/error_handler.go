package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err with a hint chosen by its error code and returns it
// unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	p := logging.NewPrettyLogger().WithWriter(h.Out)
	hint := func(format string, args ...interface{}) {
		fmt.Fprintln(h.Out, p.Styles().Key.Render(fmt.Sprintf(format, args...)))
	}
	syncErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeMissingConfig:
		p.ErrorPretty("No configuration found", nil)
		hint("Run 'git-sync setup' first.")

	case errors.ErrCodeConfigInvalid:
		p.ErrorPretty(syncErr.Message, nil)
		hint("Run 'git-sync setup' to complete the configuration.")

	case errors.ErrCodeConfigPathFailed:
		p.ErrorPretty("Could not determine where to store the configuration", syncErr.Cause)
		hint("Set %s or pass --config.", "GIT_SYNC_HOME")

	case errors.ErrCodeDirectoryUnavailable:
		p.ErrorPretty(fmt.Sprintf("Cannot use directory %s", syncErr.Detail("path")), syncErr.Cause)
		hint("Check directory_path with 'git-sync config show'.")

	case errors.ErrCodeToolFailed:
		p.ErrorPretty(syncErr.Message, nil)
		if args, ok := syncErr.Details["args"].([]string); ok && len(args) > 0 && args[0] == "push" {
			hint("Check that github_token can push to github_repo.")
		}

	case errors.ErrCodeSpawnFailed:
		p.ErrorPretty(syncErr.Message, syncErr.Cause)
		hint("Make sure git is installed and on your PATH.")

	default:
		p.ErrorPretty("Error", err)
	}

	if h.Verbose && syncErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", indent(syncErr.ToJSON()))
	}
	return err
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
