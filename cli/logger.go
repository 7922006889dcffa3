package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carpe-diem/git-sync/logging"
)

// LoggingConfig derives the logging configuration for a command run:
// --verbose forces debug level and --json switches to JSON lines.
func LoggingConfig(opts CommandOptions) logging.Config {
	cfg := logging.DefaultConfig()
	if opts.Verbose {
		cfg.Level = logrus.DebugLevel.String()
	}
	if opts.JSONOutput {
		cfg.Format.Preset = "json"
	}
	return cfg
}

// ConfigureLogging applies LoggingConfig(opts) to every logger.
func ConfigureLogging(opts CommandOptions) {
	logging.Configure(LoggingConfig(opts))
}

// GetLogger returns the structured logger for a command.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	return logging.NewLogger("cli").WithField("command", cmd.Name())
}
