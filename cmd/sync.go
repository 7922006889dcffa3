package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/config"
	"github.com/carpe-diem/git-sync/git"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/syncer"
)

// NewSyncCmd creates the `sync` command.
func NewSyncCmd() *cobra.Command {
	var noPendingPush bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit all changes in the configured directory and push them",
		Long: `Runs one synchronization: initializes the directory as a git repository
if needed, commits every change with a timestamped message and pushes the
main branch to origin. When there is nothing to commit, commits left by an
earlier failed push are pushed instead.

Examples:
  git-sync sync
  git-sync sync --no-pending-push
  GIT_SYNC_DIRECTORY_PATH=~/journal git-sync sync
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, path, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			orch, err := newOrchestrator(cfg, path, syncer.WithPendingPush(!noPendingPush))
			if err != nil {
				return err
			}
			report, err := orch.Run(outputContext(cmd, opts))
			recordSync(report, err)
			if opts.JSONOutput && report != nil {
				data, jerr := json.MarshalIndent(report, "", "  ")
				if jerr != nil {
					return jerr
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noPendingPush, "no-pending-push", false, "Do not push earlier unpushed commits when there is nothing to commit")
	return cmd
}

// executable locates the binary git calls back as credential helper.
var executable = os.Executable

// newOrchestrator wires the git CLI runner and this executable as the
// credential helper. It fails when git is not installed.
func newOrchestrator(cfg *config.Config, configPath string, opts ...syncer.Option) (*syncer.Orchestrator, error) {
	runner := git.NewCLIRunner(git.WithEnv(cli.EnvConfigFile + "=" + configPath))
	if err := runner.Available(); err != nil {
		return nil, err
	}

	if exe, err := executable(); err == nil {
		opts = append(opts, syncer.WithCredentialHelper(exe))
	} else {
		logging.NewLogger("cli").WithError(err).Debug("Executable path unknown; using git's own credentials")
	}
	return syncer.New(cfg, runner, opts...), nil
}
