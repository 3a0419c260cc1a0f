// Package cli implements the cirrus command line. Commands that call the API
// share the wiring in app.NewEnv; the bare command starts the console.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	PrefsPath  string
	LogLevel   string
	Output     string // "table" | "json" | "yaml"
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"table", "json", "yaml"}

// NewRootCommand creates the cirrus command. Without a subcommand it runs the
// console.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cirrus",
		Short: "Cirrus - a terminal console for a Linode account",
		Long: `Cirrus caches the resources of a Linode account, follows the account
event stream to keep the cache current, and presents it as a terminal console.
Subcommands expose the same cache to scripts.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions(nil))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/cirrus/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/cirrus/prefs.toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "table", "output format: table, json, yaml")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	cmd.AddCommand(newPrefsCommand(opts))
	cmd.AddCommand(newBackupsCommand(opts))
	cmd.AddCommand(newLogsCommand(opts))

	return cmd
}

// env builds the shared components for a one-shot command. Logs go to the
// command's stderr.
func (o *RootOptions) env(cmd *cobra.Command) (*app.Env, error) {
	env, err := app.NewEnv(o.appOptions(cmd))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "startup failed", err)
	}
	return env, nil
}

func (o *RootOptions) appOptions(cmd *cobra.Command) app.Options {
	opts := app.Options{
		ConfigPath: o.ConfigPath,
		PrefsPath:  o.PrefsPath,
		LogLevel:   o.LogLevel,
	}
	if cmd != nil {
		opts.Console = cmd.ErrOrStderr()
	}
	return opts
}

func (o *RootOptions) printer(cmd *cobra.Command) *printer {
	return &printer{format: o.Output, out: cmd.OutOrStdout()}
}
