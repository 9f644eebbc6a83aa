package main

import (
	"github.com/spf13/cobra"

	"github.com/brooknullsh/envcmd/internal/history"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/ui/static"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent runs",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Show recent runs that matched at least one rule, newest first.

Runs are recorded in $XDG_STATE_HOME/envcmd/history.json unless history is
disabled in the settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			h, err := history.Load(history.Path())
			if err != nil {
				return err
			}

			entries := h.Recent(limit)
			if len(entries) == 0 {
				log.FromContext(ctx).Info("no runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, static.HistoryTableRow(e))
			}
			output.FromContext(ctx).Print(static.RenderTable(static.HistoryHeaders, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 20, "Number of runs to show (0 for all)")

	return cmd
}
