package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/api"
)

// The API rejects page sizes outside this range.
const (
	minEventsPage = 25
	maxEventsPage = 500
)

func newEventsCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the most recent account events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > maxEventsPage {
				return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be between 1 and %d", maxEventsPage))
			}
			env, err := opts.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			page, err := env.Client.ListEvents(cmd.Context(), api.PageOptions{PageSize: max(limit, minEventsPage)}, api.Filter{
				"+order_by": "id",
				"+order":    "desc",
			})
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			evs := page.Data
			if len(evs) > limit {
				evs = evs[:limit]
			}
			return opts.printer(cmd).print(evs, eventHeader, eventTable(evs))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "number of events to show")
	return cmd
}

var eventHeader = []string{"ID", "ACTION", "STATUS", "ENTITY", "PROGRESS", "CREATED", "SEEN"}

func eventTable(evs []api.Event) [][]string {
	rows := make([][]string, len(evs))
	for i, ev := range evs {
		entity := "-"
		if ev.Entity != nil {
			entity = truncate(ev.Entity.Label, 32)
		}
		progress := "-"
		if pct, ok := ev.Progress(); ok {
			progress = strconv.Itoa(pct) + "%"
		}
		rows[i] = []string{itoa(ev.ID), ev.Action, string(ev.Status), entity, progress, ev.Created, yesNo(ev.Seen)}
	}
	return rows
}
