package errors

import (
	"fmt"
	"strings"
)

// MissingConfig creates the error returned when sync runs before setup
func MissingConfig(path string) *SyncError {
	return New(ErrCodeMissingConfig, "no configuration found").
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SyncError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// ConfigPathUnresolvable creates the error returned when no per-user
// configuration directory can be determined
func ConfigPathUnresolvable(err error) *SyncError {
	return Wrap(err, ErrCodeConfigPathFailed, "could not resolve the configuration directory")
}

// IOFailure wraps a filesystem error
func IOFailure(op, path string, err error) *SyncError {
	return Wrap(err, ErrCodeIO, fmt.Sprintf("%s %s", op, path)).
		WithDetail("path", path)
}

// DirectoryUnavailable creates the error returned when the sync directory
// is missing or inaccessible
func DirectoryUnavailable(path string, err error) *SyncError {
	return Wrap(err, ErrCodeDirectoryUnavailable, fmt.Sprintf("directory unavailable: %s", path)).
		WithDetail("path", path)
}

// ToolFailed creates an external tool failure carrying the tool's diagnostic text
func ToolFailed(name string, args []string, exitCode int, stderr string) *SyncError {
	stderr = strings.TrimSpace(stderr)
	msg := fmt.Sprintf("%s %s exited with status %d", name, strings.Join(args, " "), exitCode)
	if stderr != "" {
		msg += ": " + stderr
	}
	return New(ErrCodeToolFailed, msg).
		WithDetail("command", name).
		WithDetail("args", args).
		WithDetail("exitCode", exitCode).
		WithDetail("stderr", stderr)
}

// SpawnFailed creates the error returned when an executable cannot be started
func SpawnFailed(name string, err error) *SyncError {
	return Wrap(err, ErrCodeSpawnFailed, fmt.Sprintf("could not start %s", name)).
		WithDetail("command", name)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *SyncError {
	return New(ErrCodeInvalidInput, reason)
}
