package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/carpe-diem/git-sync/pkg/paths"
)

// dailyFileWriter appends to the log file of the current day and reopens
// when the date changes, so a long-running watch keeps one file per day.
// A fixed path disables the daily switch.
type dailyFileWriter struct {
	mu        sync.Mutex
	fixedPath string
	now       func() time.Time
	path      string
	file      *os.File
}

func newDailyFileWriter(fixedPath string) *dailyFileWriter {
	return &dailyFileWriter{fixedPath: fixedPath, now: time.Now}
}

// Write implements the io.Writer interface.
func (w *dailyFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path, err := w.currentPath()
	if err != nil {
		return 0, err
	}
	if w.file == nil || path != w.path {
		if w.file != nil {
			_ = w.file.Close()
			w.file = nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return 0, fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return 0, fmt.Errorf("opening log file: %w", err)
		}
		w.file = file
		w.path = path
	}
	return w.file.Write(p)
}

// Path returns the file the next entry will be written to.
func (w *dailyFileWriter) Path() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentPath()
}

// Close implements the io.Closer interface.
func (w *dailyFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

func (w *dailyFileWriter) currentPath() (string, error) {
	if w.fixedPath != "" {
		return w.fixedPath, nil
	}
	return paths.LogFile(w.now())
}
