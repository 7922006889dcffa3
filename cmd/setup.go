package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/config"
	"github.com/carpe-diem/git-sync/logging"
)

// NewSetupCmd creates the `setup` command.
func NewSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactively create or update the configuration",
		Long: `Asks for the GitHub token, the repository and the directory to sync.
The current value of each field is shown in brackets; press enter to keep it.
The token is never echoed or printed in full.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			path, err := opts.ConfigPath()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := logging.NewPrettyLogger().WithWriter(out)
			fmt.Fprintln(out, p.Styles().Value.Render("git-sync initial setup"))
			p.Divider()

			store := config.NewStore(path)
			cfg, err := store.Setup(config.NewLinePrompter(cmd.InOrStdin(), out))
			if err != nil {
				return err
			}

			p.Blank()
			p.Success("Configuration saved successfully at:")
			fmt.Fprintln(out, p.Styles().Path.Render(store.Path))
			p.Blank()

			data, err := config.Marshal(cfg.Redacted(), config.FormatJSON)
			if err != nil {
				return err
			}
			p.Code(string(data))

			if err := cfg.Validate(); err != nil {
				p.WarnPretty(fmt.Sprintf("Configuration is incomplete: %v", err))
			}
			return nil
		},
	}
}
