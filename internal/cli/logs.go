package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/config"
	"github.com/five82/cirrus/internal/logtail"
)

func newLogsCommand(opts *RootOptions) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the console log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := zerolog.ParseLevel(level)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --level", err)
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			entries, err := logtail.ReadEntries(cfg.LogFile, lines, minLevel)
			if err != nil {
				return fmt.Errorf("read %s: %w", cfg.LogFile, err)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if _, err := fmt.Fprintln(out, logtail.Format(e)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to read; 0 reads the whole file")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level: trace, debug, info, warn, error")
	return cmd
}
