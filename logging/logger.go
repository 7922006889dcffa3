package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/carpe-diem/git-sync/util/pathutil"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	current   = bareConfig()
	fileSink  *dailyFileWriter
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	apply(logger, current)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure applies cfg to every logger created so far and to every logger
// created afterwards. The CLI calls it once flags are parsed.
func Configure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	current = cfg
	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
	if cfg.File.Enabled {
		fileSink = newDailyFileWriter(expandPath(cfg.File.Path))
	}

	for _, entry := range loggers {
		apply(entry.Logger, cfg)
	}
}

// Close releases the log file, if one is open.
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if fileSink == nil {
		return nil
	}
	return fileSink.Close()
}

// CurrentConfig returns the configuration loggers are built from.
func CurrentConfig() Config {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	return current
}

func apply(logger *logrus.Logger, cfg Config) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.ReportCaller)

	switch cfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}

	logger.ReplaceHooks(make(logrus.LevelHooks))
	if fileSink != nil {
		logger.AddHook(&fileHook{writer: fileSink, formatter: &logrus.JSONFormatter{}})
	}

	if shouldLogToStderr(cfg.Format.StructuredToStderr, level) {
		logger.SetOutput(GetGlobalOutput())
	} else {
		logger.SetOutput(io.Discard)
	}
}

func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// Structured logs reach stderr only when debugging or when stderr is
		// not an interactive terminal (piped, CI). Interactive runs see the
		// pretty output instead.
		isDebug := level >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}

// fileHook writes every entry to the log file as a JSON line, independent
// of the formatter used for stderr.
type fileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// expandPath expands tilde and environment variables in file paths
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := pathutil.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
