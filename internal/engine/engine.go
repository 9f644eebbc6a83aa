// Package engine evaluates the configured rules in order and runs the
// command groups of every rule that matches.
package engine

import (
	"context"
	"fmt"

	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/runner"
	"github.com/brooknullsh/envcmd/internal/schedule"
	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

// Join policies
const (
	// JoinRule joins a rule's background commands before the next rule is
	// evaluated.
	JoinRule = "rule"
	// JoinEnd lets background commands of every matched rule overlap and
	// joins them once after the last rule.
	JoinEnd = "end"
)

// ValidJoinPolicies lists the accepted join policies.
var ValidJoinPolicies = []string{JoinRule, JoinEnd}

// Matcher decides whether a rule applies to the current environment.
type Matcher interface {
	Match(ctx context.Context, r rule.Rule) (bool, error)
}

// MatchedRule is a rule that matched, with its position in the rule list.
type MatchedRule struct {
	Index int
	Rule  rule.Rule
}

// Report summarises one engine run.
type Report struct {
	Matched []MatchedRule
	Results []runner.Result
}

// Failed returns the results of commands that exited non-zero.
func (r Report) Failed() []runner.Result {
	var failed []runner.Result
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Options configures an Engine.
type Options struct {
	Join       string // JoinRule (default) or JoinEnd
	FirstMatch bool   // stop after the first matching rule
}

// Engine drives the matcher and scheduler over a rule list.
type Engine struct {
	matcher   Matcher
	scheduler *schedule.Scheduler
	opts      Options
}

// New creates an Engine.
func New(m Matcher, s *schedule.Scheduler, opts Options) *Engine {
	if opts.Join == "" {
		opts.Join = JoinRule
	}
	return &Engine{matcher: m, scheduler: s, opts: opts}
}

// Run evaluates rules in order, consulting the matcher exactly once per
// rule, and runs the commands of each matching rule. Every command started
// has finished by the time Run returns. The error is non-nil only for fatal
// conditions: the environment could not be inspected or a command could not
// be started.
func (e *Engine) Run(ctx context.Context, rules []rule.Rule) (Report, error) {
	if e.opts.Join != JoinRule && e.opts.Join != JoinEnd {
		return Report{}, fmt.Errorf("invalid join policy %q", e.opts.Join)
	}

	l := log.FromContext(ctx)
	var report Report

	// With JoinEnd one pool spans all rules.
	var shared *schedule.Pool
	if e.opts.Join == JoinEnd {
		shared = schedule.NewPool(ctx)
		ctx = shared.Context()
	}

	finish := func(runErr error) (Report, error) {
		if shared != nil {
			// The pool's error is the first failure; anything seen later is
			// usually fallout from its cancellation.
			results, err := shared.Wait()
			report.Results = append(report.Results, results...)
			if err != nil {
				runErr = err
			}
		}
		return report, runErr
	}

	for i, r := range rules {
		matched, err := e.matcher.Match(ctx, r)
		if err != nil {
			if shared != nil {
				shared.Abort(err)
			}
			return finish(err)
		}
		if !matched {
			l.Debug("no match", "target", r.Target, "kind", r.Kind)
			continue
		}

		l.Info("%s (%s)", styles.Bold.Render(r.Target), r.Kind)
		report.Matched = append(report.Matched, MatchedRule{Index: i, Rule: r})

		if shared != nil {
			if err := e.scheduler.Launch(shared, r.Commands, r.Async); err != nil {
				return finish(err)
			}
		} else {
			results, err := e.scheduler.RunGroup(ctx, r.Commands, r.Async)
			report.Results = append(report.Results, results...)
			if err != nil {
				return finish(err)
			}
		}

		if e.opts.FirstMatch {
			break
		}
	}

	return finish(nil)
}
