package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/git"
	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

// Options configures Run.
type Options struct {
	Config       *config.Config
	SettingsPath string // settings file to validate; empty skips the check
	Dir          string // directory whose .envcmd.toml is validated; empty skips the check

	lookPath lookPathFunc
	checkGit gitCheckFunc
}

// Run performs all diagnostic checks.
func Run(ctx context.Context, opts Options) Report {
	lookPath := opts.lookPath
	if lookPath == nil {
		lookPath = defaultLookPath
	}
	checkGit := opts.checkGit
	if checkGit == nil {
		checkGit = git.Check
	}

	var r Report
	checkTools(ctx, opts.Config.Shell, checkGit, lookPath, &r)
	checkSettings(opts.SettingsPath, &r)
	checkLocal(opts.Dir, &r)
	checkRules(ctx, opts.Config.RulesPath, &r)
	return r
}

// Print writes one line per check followed by a summary.
func (r Report) Print(w io.Writer) {
	for _, p := range r.Passed {
		fmt.Fprintf(w, "  %s %s\n", styles.SymbolOK, p)
	}
	for _, issue := range r.Issues {
		symbol := styles.SymbolWarn
		if issue.Severity == SeverityError {
			symbol = styles.SymbolFail
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", symbol, issue.Category, issue.Description)
	}

	if len(r.Issues) == 0 {
		fmt.Fprintf(w, "\n%s No issues found\n", styles.SymbolOK)
		return
	}

	fmt.Fprintf(w, "\nFound %d issues (%d errors)\n", len(r.Issues), r.Errors())
	if len(r.Fixable()) > 0 {
		fmt.Fprintln(w, "Run 'envcmd doctor --fix' to repair.")
	}
}
