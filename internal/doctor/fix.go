package doctor

import (
	"fmt"
	"io"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/storage"
	"github.com/brooknullsh/envcmd/internal/ui/styles"
)

// Fix applies the fix for every fixable issue in the report and returns the
// number of issues that could not be fixed.
func Fix(cfg *config.Config, r Report, w io.Writer) int {
	var failed int
	for _, issue := range r.Fixable() {
		switch issue.FixAction {
		case FixCreateRules:
			if err := storage.CreateRules(cfg.RulesPath); err != nil {
				fmt.Fprintf(w, "  %s Failed to create %s: %v\n", styles.SymbolFail, cfg.RulesPath, err)
				failed++
				continue
			}
			fmt.Fprintf(w, "  %s Created %s\n", styles.SymbolOK, cfg.RulesPath)
		default:
			failed++
		}
	}
	return failed
}
