package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/internal/pidfile"
	"github.com/carpe-diem/git-sync/pkg/paths"
	"github.com/carpe-diem/git-sync/syncer"
	"github.com/carpe-diem/git-sync/watch"
)

// NewWatchCmd creates the `watch` command.
func NewWatchCmd() *cobra.Command {
	var (
		debounce      time.Duration
		interval      time.Duration
		ignore        []string
		noPendingPush bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever the configured directory changes",
		Long: `Runs a sync at startup and again each time files change, after the
directory has been quiet for the debounce period. Syncs never overlap and a
failed sync does not stop watching. Stop with Ctrl-C.

Examples:
  git-sync watch
  git-sync watch --debounce 10s --interval 1h
  git-sync watch --ignore '*.tmp' --ignore 'drafts/**'
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
			dir, err := syncer.ResolveDirectory(cfg.DirectoryPath)
			if err != nil {
				return err
			}

			var ignoreDirs []string
			if logDir, err := paths.LogDir(); err == nil {
				ignoreDirs = append(ignoreDirs, logDir)
			}

			orch, err := newOrchestrator(cfg, path, syncer.WithPendingPush(!noPendingPush))
			if err != nil {
				return err
			}

			pidPath, err := paths.WatchPIDFile()
			if err != nil {
				return errors.ConfigPathUnresolvable(err)
			}
			if err := pidfile.Acquire(pidPath); err != nil {
				return err
			}
			defer func() { _ = pidfile.Release(pidPath) }()

			w, err := watch.New(dir, orch, watch.Options{
				Debounce:   debounce,
				Interval:   interval,
				Ignore:     ignore,
				IgnoreDirs: ignoreDirs,
				OnSync:     recordSync,
			})
			if err != nil {
				return err
			}
			return w.Run(outputContext(cmd, opts))
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a change triggers a sync")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Also sync on this interval; 0 disables it")
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, "Ignore paths matching this .dockerignore-style pattern (repeatable)")
	cmd.Flags().BoolVar(&noPendingPush, "no-pending-push", false, "Do not push earlier unpushed commits when there is nothing to commit")
	return cmd
}
