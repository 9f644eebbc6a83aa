package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/rule"
)

// DefaultShell runs commands when no shell is configured.
const DefaultShell = "sh"

// Result records how one command finished.
type Result struct {
	Slot     rule.Slot
	ExitCode int // -1 when the process did not exit normally
	Duration time.Duration
}

// Failed reports whether the command exited non-zero or was killed.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Runner executes command slots.
type Runner struct {
	shell string
	dir   string
	out   *output.TaggedWriter
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell sets the shell binary invoked with -c.
func WithShell(shell string) Option {
	return func(r *Runner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithDir sets the working directory of spawned commands. The default is the
// current working directory.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// New creates a Runner printing command output to out.
func New(out *output.TaggedWriter, opts ...Option) *Runner {
	r := &Runner{shell: DefaultShell, out: out}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs one command to completion. The returned error is non-nil only
// when the command could not be started or the context was cancelled.
func (r *Runner) Execute(ctx context.Context, slot rule.Slot) (Result, error) {
	l := log.FromContext(ctx)
	res := Result{Slot: slot}

	c := exec.CommandContext(ctx, r.shell, "-c", slot.Command)
	c.Dir = r.dir

	stdout, err := c.StdoutPipe()
	if err != nil {
		return res, fmt.Errorf("getting stdout pipe: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return res, fmt.Errorf("getting stderr pipe: %w", err)
	}

	done := l.Command(r.dir, r.shell, "-c", slot.Command)
	start := time.Now()
	if err := c.Start(); err != nil {
		return res, fmt.Errorf("starting command (%s): %w", slot.Command, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		Drain(ctx, stdout, slot.Ordinal, r.out)
	}()
	go func() {
		defer wg.Done()
		Drain(ctx, stderr, slot.Ordinal, r.out)
	}()
	wg.Wait()

	waitErr := c.Wait()
	res.Duration = time.Since(start)
	done(res.Duration)

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		l.Debug("command exited", "ordinal", slot.Ordinal, "status", res.ExitCode)
	default:
		res.ExitCode = -1
		l.Debug("waiting for command", "ordinal", slot.Ordinal, "error", waitErr)
	}
	return res, nil
}
