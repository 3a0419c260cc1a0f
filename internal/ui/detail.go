package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/state"
)

// renderSidebar shows the selected entity and, for instances and node
// balancers, their nested children.
func (m Model) renderSidebar() string {
	styles := m.theme.Styles()
	width := m.sidebarWidth()
	height := max(m.height-5, 3)
	box := styles.Sidebar.Width(width - 2).Height(height)

	r, ok := m.selectedRow()
	if !ok {
		return box.Render(styles.MutedText.Render("Nothing selected"))
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(truncate(r.label, width-4)))
	b.WriteString("\n")
	if r.status != "" {
		b.WriteString(styles.StatusStyle(r.status).Render(r.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, f := range m.detailFields(r) {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-9s", f[0])))
		b.WriteString(styles.Text.Render(truncate(f[1], width-14)))
		b.WriteString("\n")
	}

	switch m.currentTab().kind {
	case state.KindInstances:
		disks := m.snapshot.Disks.Get(r.id)
		m.writeChildren(&b, "Disks", disks.Loading, disks.Error, mapItems(disks, func(d api.Disk) string {
			return fmt.Sprintf("%s  %s  %d MB", d.Label, d.Filesystem, d.Size)
		}))
		configs := m.snapshot.Configs.Get(r.id)
		m.writeChildren(&b, "Configs", configs.Loading, configs.Error, mapItems(configs, func(c api.InstanceConfig) string {
			return fmt.Sprintf("%s  %s", c.Label, c.Kernel)
		}))
	case state.KindNodeBalancers:
		configs := m.snapshot.NodeBalancerConfigs.Get(r.id)
		m.writeChildren(&b, "Ports", configs.Loading, configs.Error, mapItems(configs, func(c api.NodeBalancerConfig) string {
			return fmt.Sprintf(":%d %s  %d up / %d down", c.Port, c.Protocol, c.NodesStatus.Up, c.NodesStatus.Down)
		}))
	}

	return box.Render(b.String())
}

func (m Model) writeChildren(b *strings.Builder, title string, loading bool, errs entity.Errors, lines []string) {
	styles := m.theme.Styles()
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render(title))
	b.WriteString("\n")
	switch {
	case errs.Any():
		b.WriteString(styles.DangerText.Render(firstError(errs)))
		b.WriteString("\n")
	case loading && len(lines) == 0:
		b.WriteString(m.spinner.View() + styles.MutedText.Render(" loading"))
		b.WriteString("\n")
	case len(lines) == 0:
		b.WriteString(styles.FaintText.Render("none"))
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(styles.Text.Render("  " + line))
		b.WriteString("\n")
	}
}

// detailFields lists label/value pairs for the selected row.
func (m Model) detailFields(r row) [][2]string {
	s := m.snapshot
	switch m.currentTab().kind {
	case state.KindInstances:
		if in, ok := s.Instances.Get(r.id); ok {
			backups := "disabled"
			if in.Backups.Enabled {
				backups = "enabled"
			}
			return [][2]string{
				{"ID", strconv.Itoa(in.ID)}, {"Region", in.Region}, {"Plan", in.Type},
				{"Image", in.Image}, {"IPv4", strings.Join(in.IPv4, ", ")},
				{"Backups", backups}, {"Tags", strings.Join(in.Tags, ", ")}, {"Created", in.Created},
			}
		}
	case state.KindVolumes:
		if v, ok := s.Volumes.Get(r.id); ok {
			attached := "-"
			if v.LinodeID != nil {
				attached = attachedLabel(*v.LinodeID, s)
			}
			return [][2]string{
				{"ID", strconv.Itoa(v.ID)}, {"Region", v.Region}, {"Size", fmt.Sprintf("%d GB", v.Size)}, {"Linode", attached},
			}
		}
	case state.KindNodeBalancers:
		if nb, ok := s.NodeBalancers.Get(r.id); ok {
			return [][2]string{{"ID", strconv.Itoa(nb.ID)}, {"Region", nb.Region}, {"Hostname", nb.Hostname}, {"IPv4", nb.IPv4}}
		}
	case state.KindDomains:
		if d, ok := s.Domains.Get(r.id); ok {
			return [][2]string{{"ID", strconv.Itoa(d.ID)}, {"Type", d.Type}}
		}
	case state.KindClusters:
		if c, ok := s.Clusters.Get(r.id); ok {
			return [][2]string{{"ID", strconv.Itoa(c.ID)}, {"Region", c.Region}, {"Version", c.K8sVersion}}
		}
	case state.KindBuckets:
		if bk, ok := s.Buckets.Get(r.key); ok {
			return [][2]string{
				{"Cluster", bk.Cluster}, {"Hostname", bk.Hostname},
				{"Objects", strconv.Itoa(bk.Objects)}, {"Size", formatBytes(bk.Size)},
			}
		}
	}
	return nil
}

// loadChildrenCmd requests the selected parent's nested collections once
// while the sidebar is open.
func (m Model) loadChildrenCmd() tea.Cmd {
	if m.fetcher == nil || !m.prefs.SidebarOpen {
		return nil
	}
	t := m.currentTab()
	if t.kind != state.KindInstances && t.kind != state.KindNodeBalancers {
		return nil
	}
	r, ok := m.selectedRow()
	if !ok {
		return nil
	}
	k := childKey{kind: t.kind, id: r.id}
	if m.requested[k] {
		return nil
	}
	m.requested[k] = true

	ctx, fetcher, id := m.ctx, m.fetcher, r.id
	if t.kind == state.KindNodeBalancers {
		return func() tea.Msg {
			return actionDoneMsg{err: fetcher.LoadNodeBalancerConfigs(ctx, id)}
		}
	}
	return tea.Batch(
		func() tea.Msg { return actionDoneMsg{err: fetcher.LoadDisks(ctx, id)} },
		func() tea.Msg { return actionDoneMsg{err: fetcher.LoadConfigs(ctx, id)} },
	)
}

func mapItems[ID comparable, T entity.Entity[ID]](s entity.State[ID, T], format func(T) string) []string {
	items := s.Items()
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, format(it))
	}
	slices.Sort(lines)
	return lines
}
