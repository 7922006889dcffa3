package logging

import (
	"os"
	"strings"
)

// Environment variables read by DefaultConfig.
const (
	EnvLevel  = "GIT_SYNC_LOG_LEVEL"
	EnvCaller = "GIT_SYNC_LOG_CALLER"
	EnvFile   = "GIT_SYNC_LOG_FILE"
)

// Config controls how loggers created by NewLogger behave.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	Level string

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	ReportCaller bool

	// File configures logging to a file.
	File FileSinkConfig

	// Format configures the appearance of the log output.
	Format FormatConfig
}

// FileSinkConfig configures the file logging sink. Entries are always
// written to the file as JSON lines.
type FileSinkConfig struct {
	Enabled bool
	// Path overrides the daily file under the state directory.
	Path string
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset string
	// DisableTimestamp disables the timestamp from the "default" and "simple" formats.
	DisableTimestamp bool
	// DisableComponent disables the component name from the "default" and "simple" formats.
	DisableComponent bool
	// StructuredToStderr controls when structured logs are sent to stderr.
	// Can be "auto" (default), "always", or "never".
	StructuredToStderr string
}

// DefaultConfig returns the configuration derived from the environment:
// GIT_SYNC_LOG_LEVEL (default info), GIT_SYNC_LOG_CALLER=true, and
// GIT_SYNC_LOG_FILE=0 to disable the file sink.
func DefaultConfig() Config {
	cfg := Config{
		Level:        "info",
		ReportCaller: os.Getenv(EnvCaller) == "true",
		File:         FileSinkConfig{Enabled: os.Getenv(EnvFile) != "0"},
		Format:       FormatConfig{Preset: "default", StructuredToStderr: "auto"},
	}
	if level := strings.TrimSpace(os.Getenv(EnvLevel)); level != "" {
		cfg.Level = level
	}
	return cfg
}

// bareConfig is used until Configure is called: level and caller from the
// environment, no file sink.
func bareConfig() Config {
	cfg := DefaultConfig()
	cfg.File.Enabled = false
	return cfg
}
