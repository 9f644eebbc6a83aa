package schedule

import (
	"context"

	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/runner"
)

// Executor runs one command slot to completion.
type Executor interface {
	Execute(ctx context.Context, slot rule.Slot) (runner.Result, error)
}

// Scheduler runs command groups through an Executor.
type Scheduler struct {
	exec Executor
}

// New creates a Scheduler.
func New(exec Executor) *Scheduler {
	return &Scheduler{exec: exec}
}

// RunGroup runs commands and returns once every one of them finished.
// Synchronous groups run strictly in order; asynchronous groups start every
// command at once. Results are ordered by ordinal.
func (s *Scheduler) RunGroup(ctx context.Context, commands []string, async bool) ([]runner.Result, error) {
	pool := NewPool(ctx)
	launchErr := s.Launch(pool, commands, async)
	results, err := pool.Wait()
	if err != nil {
		return results, err
	}
	return results, launchErr
}

// Launch starts a group inside pool. A synchronous group runs to completion
// before Launch returns; an asynchronous group is only started and must be
// joined through pool.Wait. A fatal error aborts the whole pool.
func (s *Scheduler) Launch(pool *Pool, commands []string, async bool) error {
	group := pool.nextGroup()

	for _, slot := range rule.Slots(commands) {
		if async {
			pool.Go(group, func(ctx context.Context) (runner.Result, error) {
				return s.exec.Execute(ctx, slot)
			})
			continue
		}

		res, err := s.exec.Execute(pool.Context(), slot)
		pool.record(group, res)
		if err != nil {
			pool.Abort(err)
			return err
		}
	}
	return nil
}
