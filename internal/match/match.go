// Package match decides whether a rule's target matches the current
// environment.
package match

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/brooknullsh/envcmd/internal/git"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/rule"
)

// Matcher compares rules against the working directory and git branch.
// The branch is queried at most once per Matcher.
type Matcher struct {
	getwd  func() (string, error)
	branch func(ctx context.Context) (string, error)

	once      sync.Once
	curBranch string
	branchErr error
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithGetwd replaces the working directory lookup.
func WithGetwd(fn func() (string, error)) Option {
	return func(m *Matcher) { m.getwd = fn }
}

// WithBranch replaces the git branch lookup.
func WithBranch(fn func(ctx context.Context) (string, error)) Option {
	return func(m *Matcher) { m.branch = fn }
}

// New creates a Matcher reading the process working directory and querying
// git in it.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		getwd: os.Getwd,
		branch: func(ctx context.Context) (string, error) {
			return git.CurrentBranch(ctx, "")
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match reports whether r matches the current environment. An error means
// the environment could not be inspected at all and the run must stop.
func (m *Matcher) Match(ctx context.Context, r rule.Rule) (bool, error) {
	switch r.Kind {
	case rule.Directory:
		return m.matchDirectory(r.Target)
	case rule.Branch:
		return m.matchBranch(ctx, r.Target)
	default:
		return false, fmt.Errorf("unknown rule kind %v", r.Kind)
	}
}

func (m *Matcher) matchDirectory(target string) (bool, error) {
	dir, err := m.getwd()
	if err != nil {
		return false, fmt.Errorf("reading current directory: %w", err)
	}
	return filepath.Base(dir) == target, nil
}

func (m *Matcher) matchBranch(ctx context.Context, target string) (bool, error) {
	m.once.Do(func() {
		m.curBranch, m.branchErr = m.branch(ctx)
	})

	l := log.FromContext(ctx)
	switch err := m.branchErr; {
	case err == nil:
		return m.curBranch == target, nil
	case errors.Is(err, git.ErrNotRepository):
		l.Warn("no git in current directory")
		return false, nil
	case errors.Is(err, git.ErrBranchLookup):
		l.Warn("failed to read git branch")
		l.Debug("git branch lookup", "error", err)
		return false, nil
	case errors.Is(err, git.ErrInvalidBranch):
		l.Debug("git branch is not valid text, treating as no match")
		return false, nil
	default:
		return false, fmt.Errorf("executing git command: %w", err)
	}
}
