package main

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage settings",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage envcmd settings.

Settings: $XDG_CONFIG_HOME/envcmd/config.toml
Local:    .envcmd.toml (in the current directory)`,
		Example: `  envcmd config init   # Create default settings
  envcmd config show   # Show effective settings`,
	}

	cmd.AddCommand(newConfigInitCmd(o))
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd(o *rootOptions) *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default settings file",
		Args:  cobra.NoArgs,
		Example: `  envcmd config init      # Create settings
  envcmd config init -f   # Overwrite existing settings
  envcmd config init -s   # Print settings to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if stdout {
				output.FromContext(ctx).Print(config.DefaultConfig())
				return nil
			}

			path := o.settingsPath()
			if err := config.InitFile(path, force); err != nil {
				return err
			}
			log.FromContext(ctx).Info("created %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing settings")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print settings to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		Long: `Show the settings in effect after applying the settings file, the local
.envcmd.toml, environment variables and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return toml.NewEncoder(output.FromContext(ctx).Writer()).Encode(config.FromContext(ctx))
		},
	}
}
