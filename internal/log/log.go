// Package log provides context-aware logging for envcmd.
//
// Info and warning lines go to the primary output stream, errors to the
// error stream. Each line starts with a bold coloured level tag (I, W, E and
// D for verbose debug lines) and is written with a single Write call so it
// never tears when command output is being printed concurrently.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

type ctxKey struct{}

// Logger writes tagged log lines.
type Logger struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	quiet   bool
}

// New creates a new logger. Info, warning and debug lines go to out, errors
// to errOut. Quiet suppresses everything but errors and wins over verbose.
func New(out, errOut io.Writer, verbose, quiet bool) *Logger {
	return &Logger{
		out:     output.NewSyncWriter(out),
		errOut:  output.NewSyncWriter(errOut),
		verbose: verbose,
		quiet:   quiet,
	}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard, errOut: io.Discard}
}

func (l *Logger) line(w io.Writer, tag, format string, args []any) {
	fmt.Fprint(w, tag+" "+fmt.Sprintf(format, args...)+"\n")
}

// Info logs an informational line.
func (l *Logger) Info(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(l.out, styles.InfoTag, format, args)
}

// Warn logs a warning line.
func (l *Logger) Warn(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(l.out, styles.WarnTag, format, args)
}

// Error logs an error line. Errors are printed even when quiet.
func (l *Logger) Error(format string, args ...any) {
	l.line(l.errOut, styles.ErrorTag, format, args)
}

// Debug logs a message with key-value pairs when verbose.
// An odd trailing key is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	l.line(l.out, styles.DebugTag, "%s", []any{b.String()})
}

// Command logs an external command before it runs and returns a function
// that logs its duration. Both are no-ops unless verbose.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	if dir != "" {
		cmdline = "[" + dir + "] $ " + cmdline
	} else {
		cmdline = "$ " + cmdline
	}
	return func(d time.Duration) {
		l.line(l.out, styles.DebugTag, "%s (%s)", []any{cmdline, d.Round(time.Millisecond)})
	}
}

// IsVerbose reports whether debug output is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the writer used for info and warning lines.
func (l *Logger) Writer() io.Writer {
	return l.out
}
