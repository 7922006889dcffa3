package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/version"
)

// NewRootCmd builds the git-sync command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"git-sync",
		"Keep a local directory synchronized with a GitHub repository",
	)
	root.Long = `Commits everything in a configured directory and pushes it to a GitHub
repository. Run setup once, then sync whenever you want a snapshot, or
watch to sync automatically.

Examples:
  # Store the token, repository and directory
  git-sync setup

  # Commit and push all changes now
  git-sync sync

  # Sync on every change, at most every 5 seconds
  git-sync watch --debounce 5s
`
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(
		NewSetupCmd(),
		NewSyncCmd(),
		NewStatusCmd(),
		NewWatchCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		NewLogsCmd(),
		cli.NewVersionCommand("git-sync"),
		NewCredentialCmd(),
	)
	return root
}

// Execute runs git-sync with args and returns the process exit code. Errors
// are reported on stderr by cli.ErrorHandler.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	_ = logging.Close()
	if err == nil {
		return 0
	}

	verbose, _ := root.PersistentFlags().GetBool("verbose")
	h := cli.NewErrorHandler(verbose)
	h.Out = stderr
	h.Handle(err)
	return 1
}
