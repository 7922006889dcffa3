package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/config"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/state"
	"github.com/carpe-diem/git-sync/syncer"
)

// loadConfig loads the configuration for a command and overlays the
// GIT_SYNC_* environment. With neither a file nor any variable set it fails
// with MISSING_CONFIGURATION.
func loadConfig(opts cli.CommandOptions) (*config.Config, string, error) {
	path, err := opts.ConfigPath()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.NewStore(path).Load()
	if err != nil {
		return nil, path, err
	}
	loaded := cfg != nil
	if !loaded {
		cfg = &config.Config{}
	}

	overridden, err := config.ApplyEnv(cfg)
	if err != nil {
		return nil, path, err
	}
	if !loaded && len(overridden) == 0 {
		return nil, path, errors.MissingConfig(path)
	}
	if len(overridden) > 0 {
		logging.NewLogger("config").
			WithField("fields", overridden).
			Debug("Configuration overridden from environment")
	}
	return cfg, path, nil
}

// outputContext attaches the writer for user-facing progress. With --json
// only the command's JSON result is printed, so progress is dropped.
func outputContext(cmd *cobra.Command, opts cli.CommandOptions) context.Context {
	w := cmd.OutOrStdout()
	if opts.JSONOutput {
		w = io.Discard
	}
	return logging.WithWriter(cmd.Context(), w)
}

// recordSync stores the outcome for `git-sync status`. Failing to write the
// state file never fails the sync itself.
func recordSync(report *syncer.Report, err error) {
	log := logging.NewLogger("state")
	path, perr := state.DefaultPath()
	if perr != nil {
		log.WithError(perr).Debug("No state directory; sync not recorded")
		return
	}
	if rerr := state.Record(path, state.NewRecord(report, err)); rerr != nil {
		log.WithError(rerr).Warn("Could not record sync result")
	}
}
