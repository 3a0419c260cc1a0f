package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/state"
)

// row is one table line plus the fields it can be sorted by.
type row struct {
	id      int    // zero for buckets
	key     string // display id; bucket rows use cluster/label
	label   string
	status  string
	region  string
	created string
	cells   table.Row
}

// column is a header and its share of the available width.
type column struct {
	title string
	min   int
	grow  int
}

var kindColumns = map[state.Kind][]column{
	state.KindInstances: {
		{"ID", 9, 0}, {"Label", 14, 3}, {"Status", 12, 0}, {"Region", 10, 1},
		{"Type", 12, 1}, {"IPv4", 15, 1}, {"Backups", 8, 0},
	},
	state.KindVolumes: {
		{"ID", 9, 0}, {"Label", 14, 3}, {"Status", 10, 0}, {"Region", 10, 1},
		{"Size", 8, 0}, {"Attached To", 12, 1},
	},
	state.KindNodeBalancers: {
		{"ID", 9, 0}, {"Label", 14, 3}, {"Region", 10, 1}, {"Hostname", 20, 2}, {"IPv4", 15, 1},
	},
	state.KindDomains: {
		{"ID", 9, 0}, {"Domain", 20, 4}, {"Type", 8, 0}, {"Status", 10, 0},
	},
	state.KindClusters: {
		{"ID", 9, 0}, {"Label", 14, 3}, {"Status", 10, 0}, {"Region", 10, 1}, {"Version", 8, 0},
	},
	state.KindBuckets: {
		{"Label", 14, 3}, {"Cluster", 14, 1}, {"Objects", 8, 0}, {"Size", 10, 0},
	},
}

var eventColumns = []column{
	{"ID", 9, 0}, {"Action", 18, 2}, {"Status", 12, 0}, {"Entity", 14, 3},
	{"Progress", 8, 0}, {"Created", 19, 0}, {" ", 2, 0},
}

// layoutColumns spreads width over cols: every column gets its minimum and
// the remainder is shared by grow weight.
func layoutColumns(cols []column, width int) []table.Column {
	out := make([]table.Column, len(cols))
	used, weight := 0, 0
	for i, c := range cols {
		out[i] = table.Column{Title: c.title, Width: c.min}
		used += c.min + 2 // cell padding
		weight += c.grow
	}
	spare := width - used
	if spare <= 0 || weight == 0 {
		return out
	}
	for i, c := range cols {
		out[i].Width += spare * c.grow / weight
	}
	return out
}

// kindRows builds the rows of one resource tab.
func kindRows(kind state.Kind, snap state.Snapshot) []row {
	var rows []row
	switch kind {
	case state.KindInstances:
		for _, in := range snap.Instances.Items() {
			backups := "no"
			if in.Backups.Enabled {
				backups = "yes"
			}
			rows = append(rows, row{
				id: in.ID, key: strconv.Itoa(in.ID), label: in.Label, status: in.Status, region: in.Region, created: in.Created,
				cells: table.Row{strconv.Itoa(in.ID), in.Label, in.Status, in.Region, in.Type, first(in.IPv4), backups},
			})
		}
	case state.KindVolumes:
		for _, v := range snap.Volumes.Items() {
			attached := "-"
			if v.LinodeID != nil {
				attached = attachedLabel(*v.LinodeID, snap)
			}
			rows = append(rows, row{
				id: v.ID, key: strconv.Itoa(v.ID), label: v.Label, status: v.Status, region: v.Region,
				cells: table.Row{strconv.Itoa(v.ID), v.Label, v.Status, v.Region, fmt.Sprintf("%d GB", v.Size), attached},
			})
		}
	case state.KindNodeBalancers:
		for _, nb := range snap.NodeBalancers.Items() {
			rows = append(rows, row{
				id: nb.ID, key: strconv.Itoa(nb.ID), label: nb.Label, region: nb.Region,
				cells: table.Row{strconv.Itoa(nb.ID), nb.Label, nb.Region, nb.Hostname, nb.IPv4},
			})
		}
	case state.KindDomains:
		for _, d := range snap.Domains.Items() {
			rows = append(rows, row{
				id: d.ID, key: strconv.Itoa(d.ID), label: d.Domain, status: d.Status,
				cells: table.Row{strconv.Itoa(d.ID), d.Domain, d.Type, d.Status},
			})
		}
	case state.KindClusters:
		for _, c := range snap.Clusters.Items() {
			rows = append(rows, row{
				id: c.ID, key: strconv.Itoa(c.ID), label: c.Label, status: c.Status, region: c.Region,
				cells: table.Row{strconv.Itoa(c.ID), c.Label, c.Status, c.Region, c.K8sVersion},
			})
		}
	case state.KindBuckets:
		for _, b := range snap.Buckets.Items() {
			rows = append(rows, row{
				key: b.EntityID(), label: b.Label, region: b.Cluster,
				cells: table.Row{b.Label, b.Cluster, strconv.Itoa(b.Objects), formatBytes(b.Size)},
			})
		}
	}
	return rows
}

// eventRows builds the Events tab, newest first. Events about deleted
// entities are marked in the last column.
func eventRows(items []events.Item) []row {
	rows := make([]row, 0, len(items))
	for _, it := range items {
		entity := "-"
		if it.Entity != nil {
			entity = it.Entity.Label
			if entity == "" {
				entity = it.EntityKey()
			}
		}
		progress := "-"
		if pct, ok := it.Progress(); ok {
			progress = fmt.Sprintf("%d%%", pct)
		}
		mark := ""
		switch {
		case !it.DeletedAt.IsZero():
			mark = "✗"
		case !it.Seen:
			mark = "•"
		}
		rows = append(rows, row{
			id: it.ID, key: strconv.Itoa(it.ID), label: it.Action, status: string(it.Status), created: it.Created,
			cells: table.Row{strconv.Itoa(it.ID), it.Action, string(it.Status), entity, progress, it.Created, mark},
		})
	}
	return rows
}

func attachedLabel(linodeID int, snap state.Snapshot) string {
	if in, ok := snap.Instances.Get(linodeID); ok {
		return in.Label
	}
	return strconv.Itoa(linodeID)
}

// sortRows orders rows by key ("label", "id", "status", "region" or
// "created") and order ("asc" or "desc"). Ties fall back to the id so the
// order is stable across refreshes.
func sortRows(rows []row, key, order string) {
	slices.SortStableFunc(rows, func(a, b row) int {
		var c int
		switch key {
		case "id":
			c = cmp.Compare(a.id, b.id)
		case "status":
			c = strings.Compare(a.status, b.status)
		case "region":
			c = strings.Compare(a.region, b.region)
		case "created":
			c = strings.Compare(a.created, b.created)
		default:
			c = strings.Compare(strings.ToLower(a.label), strings.ToLower(b.label))
		}
		if c == 0 {
			c = cmp.Compare(a.id, b.id)
		}
		if c == 0 {
			c = strings.Compare(a.key, b.key)
		}
		if order == "desc" {
			return -c
		}
		return c
	})
}

func tableRows(rows []row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = r.cells
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return values[0]
}
