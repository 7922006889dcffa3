package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/cli"
	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/pkg/paths"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var (
		follow bool
		lines  int
		file   string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the git-sync log",
		Long: `Prints the newest git-sync log file. Entries are JSON lines; they are
shown as text unless --json is given.

Examples:
  # Follow the log while a watch is running elsewhere
  git-sync logs -f

  # The last 20 entries as JSON lines
  git-sync logs --tail 20 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			opts := cli.GetOptions(cmd)

			path := file
			if path == "" {
				var err error
				if path, err = defaultLogFile(follow); err != nil {
					return err
				}
			}
			logger.WithField("log_file", path).Debug("Reading log file")

			cfg := tail.Config{
				Follow:    follow,
				ReOpen:    follow,
				MustExist: !follow,
				Logger:    tail.DiscardingLogger,
			}
			if lines >= 0 {
				offset, err := lastLinesOffset(path, lines)
				if err != nil && !(follow && os.IsNotExist(err)) {
					return errors.IOFailure("read", path, err)
				}
				cfg.Location = &tail.SeekInfo{Offset: offset, Whence: io.SeekStart}
			}

			t, err := tail.TailFile(path, cfg)
			if err != nil {
				return errors.IOFailure("open", path, err)
			}
			defer t.Cleanup()

			out := cmd.OutOrStdout()
			styles := logging.NewPrettyLogger().WithWriter(out).Styles()
			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return t.Stop()
				case line, ok := <-t.Lines:
					if !ok {
						return t.Wait()
					}
					if line.Err != nil {
						return errors.IOFailure("read", path, line.Err)
					}
					if opts.JSONOutput {
						fmt.Fprintln(out, line.Text)
					} else {
						fmt.Fprintln(out, formatLogLine(styles, line.Text))
					}
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVar(&lines, "tail", -1, "Number of lines to show from the end of the log (-1 for all)")
	cmd.Flags().StringVar(&file, "file", "", "Read this log file instead of the newest one")
	return cmd
}

// defaultLogFile returns today's log file, or the newest earlier one when
// today's does not exist. When following, today's file is returned even if
// it does not exist yet.
func defaultLogFile(follow bool) (string, error) {
	today, err := paths.LogFile(time.Now())
	if err != nil {
		return "", errors.ConfigPathUnresolvable(err)
	}
	if _, err := os.Stat(today); err == nil || follow {
		return today, nil
	}
	latest, err := findLatestLogFile(filepath.Dir(today))
	if err != nil {
		return "", errors.IOFailure("find log in", filepath.Dir(today), err)
	}
	return latest, nil
}

// findLatestLogFile finds the most recently modified non-empty file in a
// directory, falling back to the newest empty one.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latest, latestNonEmpty os.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			latest = info
		}
		if info.Size() > 0 && (latestNonEmpty == nil || info.ModTime().After(latestNonEmpty.ModTime())) {
			latestNonEmpty = info
		}
	}

	switch {
	case latestNonEmpty != nil:
		return filepath.Join(dir, latestNonEmpty.Name()), nil
	case latest != nil:
		return filepath.Join(dir, latest.Name()), nil
	default:
		return "", fmt.Errorf("no log files found in %s", dir)
	}
}

// lastLinesOffset returns the byte offset at which the last n lines of the
// file start.
func lastLinesOffset(path string, n int) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	end := len(data)
	if end > 0 && data[end-1] == '\n' {
		end--
	}
	for i := 0; i < n; i++ {
		idx := bytes.LastIndexByte(data[:end], '\n')
		if idx < 0 {
			return 0, nil
		}
		end = idx
	}
	if n == 0 {
		return int64(len(data)), nil
	}
	return int64(end + 1), nil
}

// formatLogLine renders one JSON log entry for humans. Lines that are not
// JSON are returned unchanged.
func formatLogLine(styles logging.PrettyStyles, raw string) string {
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return raw
	}

	ts, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)
	component, _ := entry["component"].(string)

	timeStr := ts
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		timeStr = parsed.Format("15:04:05")
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = styles.Error
	case "warning":
		levelStyle = styles.Warning
	case "info":
		levelStyle = styles.Info
	default:
		levelStyle = styles.Key
	}

	var keys []string
	for k := range entry {
		switch k {
		case "time", "level", "msg", "component":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := []string{timeStr, levelStyle.Render(strings.ToUpper(level))}
	if component != "" {
		parts = append(parts, styles.Key.Render("["+component+"]"))
	}
	parts = append(parts, msg)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", styles.Key.Render(k), entry[k]))
	}
	return strings.Join(parts, " ")
}
