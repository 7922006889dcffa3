package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"
)

type contextKey string

const outputWriterKey contextKey = "pretty_output_writer"

// stderrSink forwards writes to a destination that can be replaced while
// loggers created earlier keep writing through it.
type stderrSink struct {
	dest atomic.Value // sinkDest
}

type sinkDest struct{ io.Writer }

func (s *stderrSink) Write(p []byte) (int, error) {
	return s.dest.Load().(sinkDest).Write(p)
}

var globalSink = newStderrSink(os.Stderr)

func newStderrSink(w io.Writer) *stderrSink {
	s := &stderrSink{}
	s.dest.Store(sinkDest{w})
	return s
}

// SetGlobalOutput redirects structured logs bound for stderr, and pretty
// output that has no writer in its context. Tests use it to capture both.
func SetGlobalOutput(w io.Writer) {
	globalSink.dest.Store(sinkDest{w})
}

// GetGlobalOutput returns the shared sink. Its destination follows
// SetGlobalOutput.
func GetGlobalOutput() io.Writer {
	return globalSink
}

// GetWriter retrieves the user-facing output writer from context.
// It falls back to the global logger output if no writer is found.
func GetWriter(ctx context.Context) io.Writer {
	if ctx != nil {
		if writer, ok := ctx.Value(outputWriterKey).(io.Writer); ok && writer != nil {
			return writer
		}
	}
	return GetGlobalOutput()
}

// WithWriter returns a new context with the user-facing output writer attached.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	return context.WithValue(ctx, outputWriterKey, writer)
}
