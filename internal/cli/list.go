package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/state"
)

func newListCommand(opts *RootOptions) *cobra.Command {
	names := make([]string, len(state.Kinds))
	for i, k := range state.Kinds {
		names[i] = string(k)
	}

	return &cobra.Command{
		Use:       "list <kind>",
		Short:     "List cached resources of one kind",
		Long:      "Load one resource collection and print it. Kinds: " + strings.Join(names, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := state.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "list", err)
			}
			env, err := opts.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Fetcher.Load(cmd.Context(), kind); err != nil {
				return fmt.Errorf("load %s: %w", kind, err)
			}
			data, header, rows := listing(kind, env.Store.Snapshot())
			return opts.printer(cmd).print(data, header, rows)
		},
	}
}

// listing renders one collection of snap as encodable data plus table rows,
// both sorted by id.
func listing(kind state.Kind, snap state.Snapshot) (any, []string, [][]string) {
	switch kind {
	case state.KindInstances:
		items := sortedByID(snap.Instances.Items(), func(i api.Instance) int { return i.ID })
		rows := make([][]string, len(items))
		for n, i := range items {
			rows[n] = []string{itoa(i.ID), i.Label, i.Status, i.Region, i.Type, strings.Join(i.IPv4, ","), yesNo(i.Backups.Enabled)}
		}
		return items, []string{"ID", "LABEL", "STATUS", "REGION", "TYPE", "IPV4", "BACKUPS"}, rows

	case state.KindVolumes:
		items := sortedByID(snap.Volumes.Items(), func(v api.Volume) int { return v.ID })
		rows := make([][]string, len(items))
		for n, v := range items {
			attached := "-"
			if v.LinodeID != nil {
				attached = itoa(*v.LinodeID)
				if inst, ok := snap.Instances.Get(*v.LinodeID); ok {
					attached = inst.Label
				}
			}
			rows[n] = []string{itoa(v.ID), v.Label, v.Status, v.Region, fmt.Sprintf("%d GB", v.Size), attached}
		}
		return items, []string{"ID", "LABEL", "STATUS", "REGION", "SIZE", "ATTACHED"}, rows

	case state.KindNodeBalancers:
		items := sortedByID(snap.NodeBalancers.Items(), func(n api.NodeBalancer) int { return n.ID })
		rows := make([][]string, len(items))
		for n, nb := range items {
			rows[n] = []string{itoa(nb.ID), nb.Label, nb.Region, nb.Hostname, nb.IPv4}
		}
		return items, []string{"ID", "LABEL", "REGION", "HOSTNAME", "IPV4"}, rows

	case state.KindDomains:
		items := sortedByID(snap.Domains.Items(), func(d api.Domain) int { return d.ID })
		rows := make([][]string, len(items))
		for n, d := range items {
			rows[n] = []string{itoa(d.ID), d.Domain, d.Type, d.Status}
		}
		return items, []string{"ID", "DOMAIN", "TYPE", "STATUS"}, rows

	case state.KindClusters:
		items := sortedByID(snap.Clusters.Items(), func(c api.Cluster) int { return c.ID })
		rows := make([][]string, len(items))
		for n, c := range items {
			rows[n] = []string{itoa(c.ID), c.Label, c.Status, c.Region, c.K8sVersion}
		}
		return items, []string{"ID", "LABEL", "STATUS", "REGION", "VERSION"}, rows

	case state.KindBuckets:
		items := snap.Buckets.Items()
		slices.SortFunc(items, func(a, b api.Bucket) int { return cmp.Compare(a.EntityID(), b.EntityID()) })
		rows := make([][]string, len(items))
		for n, b := range items {
			rows[n] = []string{b.Cluster, b.Label, b.Hostname, itoa(b.Objects), strconv.FormatInt(b.Size, 10)}
		}
		return items, []string{"CLUSTER", "LABEL", "HOSTNAME", "OBJECTS", "BYTES"}, rows
	}
	return nil, nil, nil
}

func sortedByID[T any](items []T, id func(T) int) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return items
}

func itoa(n int) string { return strconv.Itoa(n) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
