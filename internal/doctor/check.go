package doctor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/git"
	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/storage"
)

// lookPathFunc resolves a program on PATH; swapped in tests.
type lookPathFunc func(file string) (string, error)

var defaultLookPath lookPathFunc = exec.LookPath

// gitCheckFunc reports whether git is usable; swapped in tests.
type gitCheckFunc func(ctx context.Context) error

func checkTools(ctx context.Context, shell string, checkGit gitCheckFunc, lookPath lookPathFunc, r *Report) {
	if err := checkGit(ctx); err != nil {
		desc := err.Error()
		if errors.Is(err, git.ErrGitNotFound) {
			desc += "; branch rules will never match"
		}
		r.Issues = append(r.Issues, Issue{
			Category:    CategoryTools,
			Severity:    SeverityWarning,
			Description: desc,
		})
	} else {
		r.Passed = append(r.Passed, "git found")
	}

	if _, err := lookPath(shell); err != nil {
		r.Issues = append(r.Issues, Issue{
			Category:    CategoryTools,
			Severity:    SeverityError,
			Description: fmt.Sprintf("shell %q not found in PATH", shell),
		})
	} else {
		r.Passed = append(r.Passed, fmt.Sprintf("shell %q found", shell))
	}
}

func checkSettings(path string, r *Report) {
	if path == "" {
		return
	}
	if _, err := config.LoadFile(path); err != nil {
		r.Issues = append(r.Issues, Issue{
			Category:    CategorySettings,
			Severity:    SeverityError,
			Description: err.Error(),
		})
		return
	}
	r.Passed = append(r.Passed, "settings valid")
}

func checkLocal(dir string, r *Report) {
	if dir == "" {
		return
	}
	local, err := config.LoadLocal(dir)
	if err != nil {
		r.Issues = append(r.Issues, Issue{
			Category:    CategorySettings,
			Severity:    SeverityError,
			Description: err.Error(),
		})
		return
	}
	if local != nil {
		r.Passed = append(r.Passed, config.LocalConfigFileName+" valid")
	}
}

func checkRules(ctx context.Context, path string, r *Report) {
	rules, err := storage.LoadRules(path)
	if err != nil {
		issue := Issue{
			Category:    CategoryRules,
			Severity:    SeverityError,
			Description: err.Error(),
		}
		if errors.Is(err, storage.ErrNotFound) {
			issue.FixAction = FixCreateRules
		}
		r.Issues = append(r.Issues, issue)
		return
	}

	before := len(r.Issues)
	for i, rl := range rules {
		if ctx.Err() != nil {
			return
		}
		if rl.Target == "" {
			r.Issues = append(r.Issues, Issue{
				Category:    CategoryRules,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("rule %d has an empty %s target and never matches", i, rl.Kind),
			})
		}
		if rl.Kind == rule.Directory && strings.ContainsRune(rl.Target, filepath.Separator) {
			r.Issues = append(r.Issues, Issue{
				Category:    CategoryRules,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("rule %d target %q contains a path separator; directory rules compare the last path element only", i, rl.Target),
			})
		}
		if len(rl.Commands) == 0 {
			r.Issues = append(r.Issues, Issue{
				Category:    CategoryRules,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("rule %d (%s) has no commands", i, rl.Target),
			})
		}
	}
	if len(r.Issues) == before {
		r.Passed = append(r.Passed, fmt.Sprintf("%d rules valid", len(rules)))
	}
}

