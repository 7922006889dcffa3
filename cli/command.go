package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/pkg/paths"
	"github.com/carpe-diem/git-sync/util/pathutil"
)

// EnvConfigFile names a configuration file when --config is not given. git-sync
// sets it for the git processes it starts so the credential helper reads the
// same file.
const EnvConfigFile = "GIT_SYNC_CONFIG"

// CommandOptions holds the options shared by every git-sync command
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a root command with the standard flags. Logging
// is configured from those flags before any subcommand runs.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ConfigureLogging(GetOptions(cmd))
			return nil
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to the config.json file")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// ConfigPath returns the configuration file to use: the --config flag, then
// GIT_SYNC_CONFIG, then the per-user default.
func (o CommandOptions) ConfigPath() (string, error) {
	file := o.ConfigFile
	if file == "" {
		file = os.Getenv(EnvConfigFile)
	}
	if file != "" {
		path, err := pathutil.Expand(file)
		if err != nil {
			return "", errors.InvalidInput(err.Error())
		}
		return path, nil
	}
	path, err := paths.ConfigFile()
	if err != nil {
		return "", errors.ConfigPathUnresolvable(err)
	}
	return path, nil
}
