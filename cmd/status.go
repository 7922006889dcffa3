package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/internal/pidfile"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/pkg/paths"
	"github.com/carpe-diem/git-sync/state"
)

// StatusOutput is printed by `status --json`.
type StatusOutput struct {
	*state.State
	Watching bool `json:"watching"`
	WatchPID int  `json:"watch_pid,omitempty"`
}

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last sync and whether a watch is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := state.DefaultPath()
			if err != nil {
				return err
			}
			st, err := state.Load(path)
			if err != nil {
				return err
			}

			out := StatusOutput{State: st}
			if pidPath, err := paths.WatchPIDFile(); err == nil {
				if running, pid, err := pidfile.IsRunning(pidPath); err == nil && running {
					out.Watching = true
					out.WatchPID = pid
				}
			}

			w := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			p := logging.NewPrettyLogger().WithWriter(w)
			if st.LastSync == nil {
				p.InfoPretty("No sync has run yet.")
			} else {
				printRecord(p, "Last sync", st.LastSync)
				if st.LastSync.Result == state.ResultFailed && st.LastSuccess != nil {
					p.Field("Last success", st.LastSuccess.Time.Local().Format(time.DateTime))
				}
			}
			if out.Watching {
				p.Field("Watch", fmt.Sprintf("running (PID %d)", out.WatchPID))
			} else {
				p.Field("Watch", "not running")
			}
			return nil
		},
	}
}

func printRecord(p *logging.PrettyLogger, label string, rec *state.SyncRecord) {
	when := rec.Time.Local().Format(time.DateTime)
	switch rec.Result {
	case state.ResultFailed:
		p.ErrorPretty(fmt.Sprintf("%s failed at %s", label, when), nil)
	case state.ResultNoChanges:
		p.Success(fmt.Sprintf("%s at %s: nothing to synchronize", label, when))
	default:
		p.Success(fmt.Sprintf("%s at %s: %d change(s) synchronized", label, when, rec.Changes))
	}
	if rec.Directory != "" {
		p.Path("Directory", rec.Directory)
	}
	if rec.CommitMessage != "" {
		p.Field("Commit", rec.CommitMessage)
	}
	if rec.FailedStep != "" {
		p.Field("Step", rec.FailedStep)
	}
	if rec.Error != "" {
		p.Code(rec.Error)
	}
}
