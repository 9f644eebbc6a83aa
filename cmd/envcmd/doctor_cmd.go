package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/doctor"
	"github.com/brooknullsh/envcmd/internal/output"
)

func newDoctorCmd(o *rootOptions) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose setup issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Annotations: map[string]string{
			annotationReportsSettings: "true",
		},
		Long: `Diagnose setup issues.

Checks:
- git and the configured shell are installed
- Settings file and .envcmd.toml are valid
- Rules file exists and decodes
- Rules can match and have commands

Examples:
  envcmd doctor          # Check for issues
  envcmd doctor --fix    # Create a missing rules file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			w := output.FromContext(ctx).Writer()

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("reading current directory: %w", err)
			}

			report := doctor.Run(ctx, doctor.Options{Config: cfg, SettingsPath: o.settingsPath(), Dir: wd})
			report.Print(w)

			errs := report.Errors()
			if fix && len(report.Fixable()) > 0 {
				fmt.Fprintln(w)
				unfixed := doctor.Fix(cfg, report, w)
				errs -= len(report.Fixable()) - unfixed
			}

			if errs > 0 {
				return fmt.Errorf("%d issues found", errs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Create a missing rules file")

	return cmd
}
