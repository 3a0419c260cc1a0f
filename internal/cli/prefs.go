package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/prefs"
)

func newPrefsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and change console preferences",
	}
	cmd.AddCommand(newPrefsListCommand(opts))
	cmd.AddCommand(newPrefsGetCommand(opts))
	cmd.AddCommand(newPrefsSetCommand(opts))
	return cmd
}

func newPrefsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prefs.Load(opts.PrefsPath)
			if err != nil {
				return err
			}
			values := make(map[string]string, len(prefs.Keys()))
			rows := make([][]string, 0, len(prefs.Keys()))
			for _, k := range prefs.Keys() {
				v, err := p.Get(k)
				if err != nil {
					return err
				}
				values[k] = v
				rows = append(rows, []string{k, v})
			}
			return opts.printer(cmd).print(values, []string{"KEY", "VALUE"}, rows)
		},
	}
}

func newPrefsGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: prefs.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prefs.Load(opts.PrefsPath)
			if err != nil {
				return err
			}
			v, err := p.Get(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "prefs get", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func newPrefsSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prefs.Load(opts.PrefsPath)
			if err != nil {
				return err
			}
			if err := p.Set(args[0], args[1]); err != nil {
				return WrapExitError(ExitCommandError, "prefs set", err)
			}
			if err := prefs.Save(opts.PrefsPath, p); err != nil {
				return err
			}
			v, _ := p.Get(args[0])
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printf("%s = %s\n", args[0], v)
			return nil
		},
	}
}
