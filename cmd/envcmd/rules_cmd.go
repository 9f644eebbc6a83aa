package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
	"github.com/brooknullsh/envcmd/internal/rule"
	"github.com/brooknullsh/envcmd/internal/storage"
	"github.com/brooknullsh/envcmd/internal/ui/prompt"
	"github.com/brooknullsh/envcmd/internal/ui/static"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create",
		Short:   "Create the rules file with an example rule",
		Aliases: []string{"c"},
		GroupID: GroupRules,
		Args:    cobra.NoArgs,
		Long: `Create the rules file with a single example rule.

Fails if the rules file already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			if err := storage.CreateRules(cfg.RulesPath); err != nil {
				return err
			}
			log.FromContext(ctx).Info("created %s", cfg.RulesPath)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete",
		Short:   "Delete the rules file",
		Aliases: []string{"d"},
		GroupID: GroupRules,
		Args:    cobra.NoArgs,
		Long: `Delete the rules file, and its directory when nothing else is in it.

Asks for confirmation unless --yes is given.`,
		Example: `  envcmd delete        # Ask before deleting
  envcmd delete --yes  # Delete without asking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			if _, err := os.Stat(cfg.RulesPath); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w at %s", storage.ErrNotFound, cfg.RulesPath)
			}

			if !yes {
				res, err := prompt.ConfirmWith(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("delete %s?", cfg.RulesPath))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					l.Info("aborted")
					return nil
				}
			}

			if err := storage.DeleteRules(cfg.RulesPath); err != nil {
				return err
			}
			l.Info("deleted %s", cfg.RulesPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show [query]",
		Short:   "Show the configured rules",
		Aliases: []string{"s", "list"},
		GroupID: GroupRules,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show the configured rules as a table.

With a query, only rules whose target fuzzy-matches it are shown.`,
		Example: `  envcmd show       # All rules
  envcmd show api   # Rules with a target like "api"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			rules, err := storage.LoadRules(cfg.RulesPath)
			if err != nil {
				return err
			}

			var query string
			if len(args) == 1 {
				query = args[0]
			}

			indexes := rule.Filter(rules, query)
			if len(indexes) == 0 {
				if query != "" {
					log.FromContext(ctx).Info("no rules match %q", query)
				} else {
					log.FromContext(ctx).Info("no rules in %s", cfg.RulesPath)
				}
				return nil
			}

			rows := make([][]string, 0, len(indexes))
			for _, i := range indexes {
				rows = append(rows, static.RuleTableRow(i, rules[i]))
			}
			out.Print(static.RenderTable(static.RuleHeaders, rows))
			return nil
		},
	}
}

func newPathCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "path",
		Short:   "Print the rules file path",
		GroupID: GroupRules,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			output.FromContext(ctx).Println(cfg.RulesPath)

			if copyPath {
				if err := clipboard.WriteAll(cfg.RulesPath); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Info("copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Also copy the path to the clipboard")

	return cmd
}
