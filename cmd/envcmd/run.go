package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/engine"
	"github.com/brooknullsh/envcmd/internal/history"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/match"
	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/runner"
	"github.com/brooknullsh/envcmd/internal/schedule"
	"github.com/brooknullsh/envcmd/internal/storage"
)

// runRoot evaluates the rules against the current directory and branch.
func runRoot(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	rules, err := storage.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("reading current directory: %w", err)
	}

	out := output.NewTaggedWriter(output.FromContext(ctx).Writer())
	r := runner.New(out, runner.WithShell(cfg.Shell), runner.WithDir(wd))
	e := engine.New(
		match.New(match.WithGetwd(func() (string, error) { return wd, nil })),
		schedule.New(r),
		engine.Options{Join: cfg.Join, FirstMatch: cfg.FirstMatch},
	)

	l.Debug("running rules", "path", cfg.RulesPath, "rules", len(rules), "join", cfg.Join)
	started := time.Now()
	report, err := e.Run(ctx, rules)
	if err != nil {
		return err
	}

	if cfg.History && len(report.Matched) > 0 {
		entry := history.NewEntry(started, wd, report)
		if err := history.Record(history.Path(), entry, cfg.HistoryLimit); err != nil {
			l.Warn("failed to record history: %v", err)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		for _, res := range failed {
			l.Debug("command failed", "ordinal", res.Slot.Ordinal, "command", res.Slot.Command, "exit", res.ExitCode)
		}
		if cfg.Strict {
			return fmt.Errorf("%d of %d commands exited non-zero", len(failed), len(report.Results))
		}
	}
	return nil
}
