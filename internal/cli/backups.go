package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/fetch"
)

func newBackupsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Manage instance backups",
	}
	cmd.AddCommand(newBackupsEnableCommand(opts))
	return cmd
}

func newBackupsEnableCommand(opts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "enable [ids...]",
		Short: "Enable backups on instances",
		Long: `Enable the backup service on each listed instance, one at a time.
With --all every instance that has backups disabled is enabled. A failure
does not stop the batch; failed instances are reported and the command exits 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return NewExitError(ExitCommandError, "pass instance ids or --all, not both")
			}
			ids, err := parseIDs(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "backups enable", err)
			}

			env, err := opts.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			ctx := cmd.Context()
			if all {
				if err := env.Fetcher.LoadInstances(ctx); err != nil {
					return fmt.Errorf("load instances: %w", err)
				}
				ids = env.Fetcher.InstancesWithoutBackups()
				if len(ids) == 0 {
					pterm.Info.WithWriter(cmd.OutOrStdout()).Println("Every instance already has backups enabled.")
					return nil
				}
			}

			result := env.Fetcher.EnableBackups(ctx, ids)
			if err := reportBatch(opts.printer(cmd), result); err != nil {
				return err
			}
			if !result.OK() {
				return WrapExitError(ExitFailure, "enable backups", result.Err())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "enable backups on every instance without them")
	return cmd
}

func reportBatch(p *printer, result fetch.BatchResult) error {
	if p.format != "table" {
		return p.print(result, nil, nil)
	}
	for _, id := range result.Succeeded {
		pterm.Success.WithWriter(p.out).Printf("instance %d: backups enabled\n", id)
	}
	for _, f := range result.Failed {
		pterm.Error.WithWriter(p.out).Printf("instance %d: %s\n", f.ResourceID, f.Reason)
	}
	return nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid instance id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
