// Package output provides context-aware output for envcmd.
//
// Stdout carries primary output: tagged command lines, info/warn log lines
// and the tables printed by show and history. Every writer that shares a
// stream goes through one [SyncWriter] so concurrent goroutines never
// interleave partial lines.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/colorprofile"
)

type ctxKey struct{}

// Colour modes accepted by NewTerminal.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidColorModes lists the accepted colour modes.
var ValidColorModes = []string{ColorAuto, ColorAlways, ColorNever}

// Printer writes primary output (tables, paths) to stdout.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// SyncWriter serialises writes so each Write call reaches the underlying
// writer uninterrupted.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w. Wrapping a *SyncWriter returns it unchanged.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// NewTerminal wraps f in a colour-adapting writer and serialises access to it.
// In auto mode the colour profile is detected from f and environ (TTY,
// NO_COLOR, TERM); always forces basic ANSI colours and never strips all
// styling.
func NewTerminal(f io.Writer, environ []string, mode string) *SyncWriter {
	cw := colorprofile.NewWriter(f, environ)
	switch mode {
	case ColorAlways:
		cw.Profile = colorprofile.ANSI
	case ColorNever:
		cw.Profile = colorprofile.NoTTY
	}
	return NewSyncWriter(cw)
}
