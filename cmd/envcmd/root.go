package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brooknullsh/envcmd/internal/config"
	"github.com/brooknullsh/envcmd/internal/log"
	"github.com/brooknullsh/envcmd/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupRules   = "rules"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	verbose    bool
	quiet      bool
	configPath string
	rules      string
	strict     bool
	join       string
	color      string
}

// settingsPath returns the settings file in effect.
func (o *rootOptions) settingsPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.Path()
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "envcmd",
		Short: "Run commands when the directory or git branch matches a rule",
		Long: `envcmd runs the commands of every rule that matches the current environment.

A rule matches on the name of the current directory or on the current git
branch. Its commands run one after another, or all at once when the rule is
async. Every output line is prefixed with the command's position in the rule.

Rules are read from ~/.envcmd/config.json (see 'envcmd create').`,
		Example: `  envcmd                  # Run matching rules
  envcmd -v               # Also show skipped rules and timings
  envcmd --join end       # Let async commands of all rules overlap
  envcmd --strict         # Exit 1 if any command fails`,
		Args:                       cobra.NoArgs,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Show skipped rules and external commands")
	cmd.PersistentFlags().BoolVarP(&o.quiet, "quiet", "q", false, "Suppress all log output except errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/envcmd/config.toml)")
	cmd.PersistentFlags().StringVar(&o.rules, "rules", "", "Rules file (default ~/.envcmd/config.json)")
	cmd.PersistentFlags().StringVar(&o.color, "color", "", "Colour output: auto, always or never")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Exit 1 when any command exits non-zero")
	cmd.Flags().StringVar(&o.join, "join", "", "Wait for async commands after each rule (rule) or at the end (end)")

	cmd.RegisterFlagCompletionFunc("color", cobra.FixedCompletions(config.ValidColorModes, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("join", cobra.FixedCompletions(config.ValidJoinPolicies, cobra.ShellCompDirectiveNoFileComp))

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupRules, Title: "Rules Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPathCmd())

	cmd.AddCommand(newHistoryCmd())

	cmd.AddCommand(newConfigCmd(o))
	cmd.AddCommand(newDoctorCmd(o))

	return cmd
}

// annotationReportsSettings marks commands that run with default settings
// when the settings files are invalid, so they can report the problem.
const annotationReportsSettings = "envcmd/reports-settings"

// setup resolves the effective settings and attaches them, the logger and
// the output printer to the command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if err := config.ValidateJoin(o.join); err != nil {
		return err
	}
	if err := config.ValidateColor(o.color); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("reading current directory: %w", err)
	}
	// Load returns the defaults alongside any error.
	cfg, err := config.Load(o.settingsPath(), wd)
	if err != nil && cmd.Annotations[annotationReportsSettings] == "" {
		return err
	}

	if o.rules != "" {
		if err := cfg.SetRulesPath(o.rules); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = o.strict
	}
	if o.join != "" {
		cfg.Join = o.join
	}
	if o.color != "" {
		cfg.Color = o.color
	}

	// Log lines and command output share one writer so lines never interleave.
	stdout := output.NewTerminal(cmd.OutOrStdout(), os.Environ(), cfg.Color)
	stderr := output.NewTerminal(cmd.ErrOrStderr(), os.Environ(), cfg.Color)

	ctx := cmd.Context()
	ctx = log.WithLogger(ctx, log.New(stdout, stderr, o.verbose, o.quiet))
	ctx = output.WithPrinter(ctx, stdout)
	ctx = config.WithConfig(ctx, &cfg)
	cmd.SetContext(ctx)
	return nil
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		errOut := output.NewTerminal(stderr, os.Environ(), output.ColorAuto)
		log.New(io.Discard, errOut, false, false).Error("%v", err)
		return 1
	}
	return 0
}

// Execute runs envcmd and exits with its status.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
