package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/git"
)

// CredentialUsername is the user name GitHub expects with a token.
const CredentialUsername = "x-access-token"

// NewCredentialCmd creates the hidden `credential` command git calls as a
// credential helper during push.
func NewCredentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "credential <get|store|erase>",
		Short:     "git credential helper backed by the configured token",
		Hidden:    true,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"get", "store", "erase"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "get" {
				// store and erase: the token lives in config.json.
				_, err := io.Copy(io.Discard, cmd.InOrStdin())
				return err
			}

			req, err := readCredentialRequest(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if req["protocol"] != "https" || req["host"] != git.GitHubHost {
				return nil
			}

			logger := cli.GetLogger(cmd)
			cfg, _, err := loadConfig(cli.GetOptions(cmd))
			if err != nil {
				logger.WithError(err).Debug("No configuration for credential request")
				return nil
			}
			if cfg.GitHubToken == "" {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "username=%s\npassword=%s\n", CredentialUsername, cfg.GitHubToken)
			return nil
		},
	}
}

// readCredentialRequest parses key=value lines up to a blank line or EOF.
func readCredentialRequest(r io.Reader) (map[string]string, error) {
	req := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		req[key] = value
	}
	return req, scanner.Err()
}
