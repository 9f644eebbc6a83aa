// Package schedule runs a rule's command list either one after another or
// all at once, and guarantees every command it starts is joined before the
// caller moves on.
package schedule

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/brooknullsh/envcmd/internal/runner"
)

// Pool collects the results of commands started for one or more groups.
// Background commands run on an errgroup; the first error cancels the
// pool's context, which kills every other running command.
type Pool struct {
	g      *errgroup.Group
	ctx    context.Context // errgroup context, cancelled on the first error
	base   context.Context // cancelled by Abort or the caller
	cancel context.CancelCauseFunc

	mu      sync.Mutex
	groups  int
	results []entry
}

type entry struct {
	group int
	res   runner.Result
}

// NewPool creates an empty pool derived from ctx.
func NewPool(ctx context.Context) *Pool {
	base, cancel := context.WithCancelCause(ctx)
	g, gctx := errgroup.WithContext(base)
	return &Pool{g: g, ctx: gctx, base: base, cancel: cancel}
}

// Context returns the context commands of this pool must run under.
func (p *Pool) Context() context.Context {
	return p.ctx
}

// nextGroup reserves the id used to order a group's results.
func (p *Pool) nextGroup() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups++
	return p.groups
}

func (p *Pool) record(group int, res runner.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, entry{group: group, res: res})
}

// Go starts fn in the background.
func (p *Pool) Go(group int, fn func(ctx context.Context) (runner.Result, error)) {
	p.g.Go(func() error {
		res, err := fn(p.ctx)
		p.record(group, res)
		return err
	})
}

// Abort cancels every running command with err as the cause.
func (p *Pool) Abort(err error) {
	p.cancel(err)
}

// Wait joins every background command and returns all recorded results,
// ordered by group and then by ordinal. The error is the first failure.
func (p *Pool) Wait() ([]runner.Result, error) {
	err := p.g.Wait()
	if err == nil && p.base.Err() != nil {
		err = context.Cause(p.base)
	}
	p.cancel(nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	sort.SliceStable(p.results, func(i, j int) bool {
		a, b := p.results[i], p.results[j]
		if a.group != b.group {
			return a.group < b.group
		}
		return a.res.Slot.Ordinal < b.res.Slot.Ordinal
	})
	results := make([]runner.Result, len(p.results))
	for i, e := range p.results {
		results[i] = e.res
	}
	return results, err
}
