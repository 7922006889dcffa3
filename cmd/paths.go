package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/pkg/paths"
)

// PathsOutput lists the locations git-sync reads and writes.
type PathsOutput struct {
	ConfigDir  string `json:"config_dir"`
	ConfigFile string `json:"config_file"`
	StateDir   string `json:"state_dir"`
	LogDir     string `json:"log_dir"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the directories used by git-sync",
		Long: `Print the directories used by git-sync as JSON.

- config_dir: holds config.json ($GIT_SYNC_HOME/config, $XDG_CONFIG_HOME/git-sync)
- config_file: the file sync reads, honouring --config and GIT_SYNC_CONFIG
- state_dir: runtime state ($GIT_SYNC_HOME/state, $XDG_STATE_HOME/git-sync)
- log_dir: daily JSON log files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var output PathsOutput
			var err error
			if output.ConfigDir, err = paths.ConfigDir(); err != nil {
				return err
			}
			if output.ConfigFile, err = cli.GetOptions(cmd).ConfigPath(); err != nil {
				return err
			}
			if output.StateDir, err = paths.StateDir(); err != nil {
				return err
			}
			if output.LogDir, err = paths.LogDir(); err != nil {
				return err
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}
