// Package watch re-runs the sync sequence whenever the synchronized
// directory changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"

	"github.com/carpe-diem/git-sync/errors"
	"github.com/carpe-diem/git-sync/logging"
	"github.com/carpe-diem/git-sync/syncer"
	"github.com/carpe-diem/git-sync/util/pathutil"
)

// DefaultDebounce is how long the tree must stay quiet before a sync runs.
const DefaultDebounce = 2 * time.Second

// Syncer runs one sync. *syncer.Orchestrator implements it.
type Syncer interface {
	Run(ctx context.Context) (*syncer.Report, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce collapses bursts of events into one sync. Zero means
	// DefaultDebounce.
	Debounce time.Duration
	// Interval triggers a sync even without events. Zero disables it.
	Interval time.Duration
	// Ignore holds .dockerignore-style patterns relative to the directory.
	Ignore []string
	// IgnoreDirs are absolute directories whose events are dropped, such as
	// a log directory placed inside the synchronized tree.
	IgnoreDirs []string
	// OnSync is called after every sync with its outcome.
	OnSync func(*syncer.Report, error)
}

// Watcher watches a directory tree and runs syncs serially.
type Watcher struct {
	dir     string
	sync    Syncer
	opts    Options
	matcher *patternmatcher.PatternMatcher
	fsw     *fsnotify.Watcher
	logger  *logrus.Entry
	ulog    *logging.UnifiedLogger
}

// New creates a watcher for dir, which must already be resolved to an
// absolute directory.
func New(dir string, s Syncer, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Interval < 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("interval must not be negative, got %s", opts.Interval))
	}

	var matcher *patternmatcher.PatternMatcher
	if len(opts.Ignore) > 0 {
		m, err := patternmatcher.New(opts.Ignore)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid ignore pattern: %v", err))
		}
		matcher = m
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "could not create file watcher")
	}

	return &Watcher{
		dir:     filepath.Clean(dir),
		sync:    s,
		opts:    opts,
		matcher: matcher,
		fsw:     fsw,
		logger:  logging.NewLogger("watch"),
		ulog:    logging.NewUnifiedLogger("watch"),
	}, nil
}

// Ignored reports whether events for path are dropped. Paths outside the
// directory, anything under .git and paths matching an ignore pattern (or
// below a matching directory) are ignored.
func (w *Watcher) Ignored(path string) bool {
	for _, dir := range w.opts.IgnoreDirs {
		if within, err := pathutil.IsWithin(path, dir); err == nil && within {
			return true
		}
	}

	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	if rel == "." {
		return false
	}
	if first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]; first == ".git" {
		return true
	}
	if w.matcher == nil {
		return false
	}
	matched, err := w.matcher.MatchesOrParentMatches(rel)
	if err != nil {
		w.logger.WithError(err).WithField("path", rel).Debug("Ignore pattern evaluation failed")
		return false
	}
	return matched
}

// Close releases the file watcher. Run closes it on return, so Close is
// only needed when Run is never called.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// addTree watches root and every directory below it that is not ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish between the event and the walk.
			if os.IsNotExist(err) && path != root {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.dir && w.Ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		w.logger.WithField("path", path).Trace("Watching directory")
		return nil
	})
}

// Run performs an initial sync, then syncs again after each debounced burst
// of events and on every interval tick. It blocks until ctx is cancelled and
// returns nil in that case. Sync failures are logged and do not stop it.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addTree(w.dir); err != nil {
		return errors.DirectoryUnavailable(w.dir, err)
	}

	w.ulog.Info(fmt.Sprintf("Watching %s", w.dir)).
		Field("debounce", w.opts.Debounce.String()).
		Field("interval", w.opts.Interval.String()).
		Log(ctx)

	w.runSync(ctx, "startup")

	debounce := time.NewTimer(w.opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	var tick <-chan time.Time
	if w.opts.Interval > 0 {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			w.ulog.Info("Stopped watching").Log(ctx)
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			debounce.Reset(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("File watcher error")

		case <-debounce.C:
			w.runSync(ctx, "change")

		case <-tick:
			w.runSync(ctx, "interval")
		}
	}
}

// handleEvent reports whether event should trigger a sync. New directories
// are added to the watch list.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || w.Ignored(event.Name) {
		return false
	}
	w.logger.WithFields(logrus.Fields{
		"path": event.Name,
		"op":   event.Op.String(),
	}).Debug("Change detected")

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.WithError(err).WithField("path", event.Name).Warn("Could not watch new directory")
			}
		}
	}
	return true
}

func (w *Watcher) runSync(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	w.logger.WithField("trigger", trigger).Debug("Starting sync")
	report, err := w.sync.Run(ctx)
	if err != nil && ctx.Err() == nil {
		w.ulog.Warn("Sync failed; still watching").Err(err).Field("trigger", trigger).Log(ctx)
	}
	if w.opts.OnSync != nil {
		w.opts.OnSync(report, err)
	}
}
