package logging

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

// ansiRegex matches ANSI escape sequences for stripping
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// UnifiedLogger writes one event both as user-facing styled output and as a
// structured log entry.
type UnifiedLogger struct {
	component  string
	structured *logrus.Entry
}

// NewUnifiedLogger creates a new unified logger for a specific component.
func NewUnifiedLogger(component string) *UnifiedLogger {
	return &UnifiedLogger{
		component:  component,
		structured: NewLogger(component),
	}
}

func (u *UnifiedLogger) entry(level logrus.Level, icon, status, msg string) *LogEntry {
	fields := logrus.Fields{}
	if status != "" {
		fields["status"] = status
	}
	return &LogEntry{logger: u, msg: msg, level: level, fields: fields, icon: icon}
}

// Debug returns a LogEntry at DEBUG level. Debug entries only reach pretty
// output when the logger level is debug.
func (u *UnifiedLogger) Debug(msg string) *LogEntry {
	return u.entry(logrus.DebugLevel, "", "", msg)
}

// Info returns a LogEntry at INFO level.
func (u *UnifiedLogger) Info(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, IconInfo, "", msg)
}

// Warn returns a LogEntry at WARN level with IconWarning.
func (u *UnifiedLogger) Warn(msg string) *LogEntry {
	return u.entry(logrus.WarnLevel, IconWarning, "", msg)
}

// Error returns a LogEntry at ERROR level with IconError.
func (u *UnifiedLogger) Error(msg string) *LogEntry {
	return u.entry(logrus.ErrorLevel, IconError, "", msg)
}

// Success returns a LogEntry with IconSuccess pre-set.
// Success messages are logged at INFO level with status=success in structured output.
func (u *UnifiedLogger) Success(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, IconSuccess, "success", msg)
}

// Progress returns a LogEntry with IconRunning pre-set.
func (u *UnifiedLogger) Progress(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, IconRunning, "progress", msg)
}

// LogEntry accumulates options before writing to both outputs.
// Use the chainable methods to configure the entry, then call Log(ctx) to execute.
type LogEntry struct {
	logger     *UnifiedLogger
	msg        string
	level      logrus.Level
	fields     logrus.Fields
	icon       string
	detail     string
	prettyOnly bool
	structOnly bool
	err        error
}

// Field adds a structured field (chainable).
// Fields appear in structured logs but not in pretty output.
func (e *LogEntry) Field(key string, value interface{}) *LogEntry {
	e.fields[key] = value
	return e
}

// Fields adds multiple structured fields (chainable).
func (e *LogEntry) Fields(fields map[string]interface{}) *LogEntry {
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

// Err attaches an error (chainable).
// The error message is added to structured output as the "error" field.
func (e *LogEntry) Err(err error) *LogEntry {
	if err != nil {
		e.err = err
		e.fields["error"] = err.Error()
	}
	return e
}

// Detail attaches multi-line text (e.g. git output) shown indented under
// the pretty message and stored as the "output" field.
func (e *LogEntry) Detail(text string) *LogEntry {
	e.detail = text
	if text != "" {
		e.fields["output"] = text
	}
	return e
}

// PrettyOnly skips structured output (chainable).
func (e *LogEntry) PrettyOnly() *LogEntry {
	e.prettyOnly = true
	return e
}

// StructuredOnly skips pretty output (chainable).
func (e *LogEntry) StructuredOnly() *LogEntry {
	e.structOnly = true
	return e
}

// Log executes the log entry. Pretty output goes to the writer attached to
// ctx with WithWriter.
func (e *LogEntry) Log(ctx context.Context) {
	if !e.structOnly && e.logger.structured.Logger.IsLevelEnabled(e.level) {
		e.logPretty(ctx)
	}
	if !e.prettyOnly {
		e.logger.structured.WithFields(e.fields).Log(e.level, e.msg)
	}
}

func (e *LogEntry) logPretty(ctx context.Context) {
	p := (&PrettyLogger{}).WithWriter(GetWriter(ctx))
	styles := p.Styles()

	switch e.level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		p.ErrorPretty(e.msg, e.err)
	case logrus.WarnLevel:
		p.WarnPretty(e.msg)
	case logrus.DebugLevel, logrus.TraceLevel:
		fmt.Fprintln(p.writer, styles.Key.Render(e.msg))
	default:
		switch e.icon {
		case IconSuccess:
			p.Success(e.msg)
		case IconRunning:
			p.Step(e.msg)
		default:
			fmt.Fprintf(p.writer, "%s %s\n", styles.Info.Render(e.icon), e.msg)
		}
	}
	p.Code(e.detail)
}

// Component returns the component name for this logger.
func (u *UnifiedLogger) Component() string {
	return u.component
}

// WithStructured returns the underlying logrus entry for direct structured logging.
func (u *UnifiedLogger) WithStructured() *logrus.Entry {
	return u.structured
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
