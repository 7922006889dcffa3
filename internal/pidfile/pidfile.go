// Package pidfile keeps a single `git-sync watch` running per state
// directory.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/carpe-diem/git-sync/errors"
)

// Acquire writes the current PID to path. It fails with INVALID_INPUT while
// another live process holds the file. A file naming a dead process, or
// holding no PID at all, is removed and created once more.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.IOFailure("create", filepath.Dir(path), err)
	}

	err := create(path)
	if err == nil || !os.IsExist(err) {
		return wrapCreate(path, err)
	}

	pid, rerr := Read(path)
	switch {
	case rerr != nil && os.IsNotExist(rerr):
		// Released between our create and read.
	case rerr == nil && pid == os.Getpid():
		return nil
	case rerr == nil && processAlive(pid):
		return errors.InvalidInput(fmt.Sprintf("git-sync watch is already running with PID %d", pid)).
			WithDetail("pid", pid).
			WithDetail("path", path)
	default:
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.IOFailure("remove", path, err)
		}
	}

	err = create(path)
	if err != nil && os.IsExist(err) {
		return errors.InvalidInput("git-sync watch is starting in another process").
			WithDetail("path", path)
	}
	return wrapCreate(path, err)
}

// create makes path with O_EXCL and writes the current PID into it.
func create(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	cerr := f.Close()
	if werr != nil {
		_ = os.Remove(path)
		return werr
	}
	if cerr != nil {
		_ = os.Remove(path)
		return cerr
	}
	return nil
}

func wrapCreate(path string, err error) error {
	if err == nil {
		return nil
	}
	return errors.IOFailure("create", path, err)
}

// Release removes path if it still holds the current PID.
func Release(path string) error {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}

// Read returns the PID stored in path.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning reports whether the process named by path is alive. A missing
// file means nothing is running.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return processAlive(pid), pid, nil
}

// processAlive sends signal 0, which checks for existence without
// delivering anything. EPERM means the process exists under another user.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
