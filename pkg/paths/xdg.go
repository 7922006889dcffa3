// Package paths provides XDG-compliant path resolution for git-sync.
//
// Resolution order:
// 1. GIT_SYNC_HOME (portable root) → $GIT_SYNC_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/git-sync
// 3. Platform defaults → os.UserConfigDir()/git-sync, ~/.local/state/git-sync
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName names the per-user directories.
	AppName = "git-sync"

	// ConfigFileName is the name of the persisted configuration document.
	ConfigFileName = "config.json"

	// HomeEnv relocates every git-sync directory under one root.
	HomeEnv = "GIT_SYNC_HOME"
)

// ConfigDir returns the git-sync configuration directory.
func ConfigDir() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "config"), nil
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ConfigFile returns the full path of config.json.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// StateDir returns the git-sync state directory.
// Used for runtime state and logs.
func StateDir() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "state"), nil
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return filepath.Join(xdgStateHome, AppName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", AppName), nil
}

// LogDir returns the directory daily log files are written to.
func LogDir() (string, error) {
	state, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(state, "logs"), nil
}

// LogFile returns the log file path for the day of t.
func LogFile(t time.Time) (string, error) {
	dir, err := LogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", AppName, t.Format("2006-01-02"))), nil
}

// StateFile returns the file recording the outcome of the last sync.
func StateFile() (string, error) {
	return inStateDir("state.yml")
}

// WatchPIDFile returns the lock file held by a running `git-sync watch`.
func WatchPIDFile() (string, error) {
	return inStateDir("watch.pid")
}

func inStateDir(name string) (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureDirs creates the config and state directories if they don't exist.
func EnsureDirs() error {
	for _, resolve := range []func() (string, error){ConfigDir, LogDir} {
		dir, err := resolve()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
