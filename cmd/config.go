package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/config"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/schema"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the git-sync configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigPathCmd(), newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the token masked",
		Long: `Prints the configuration sync would use: the file contents with any
GIT_SYNC_GITHUB_TOKEN, GIT_SYNC_GITHUB_REPO or GIT_SYNC_DIRECTORY_PATH
overrides applied. The token is always masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isFormat(format) {
				return errors.InvalidInput(fmt.Sprintf("unknown format %q (want one of: %s)", format, strings.Join(config.Formats(), ", ")))
			}
			cfg, _, err := loadConfig(cli.GetOptions(cmd))
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg.Redacted(), format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "Output format: json, yaml, toml")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cli.GetOptions(cmd).ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema config.json is validated against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(schema.Embedded())
			return err
		},
	}
}

func isFormat(format string) bool {
	for _, f := range append(config.Formats(), "yml") {
		if strings.EqualFold(format, f) {
			return true
		}
	}
	return false
}
