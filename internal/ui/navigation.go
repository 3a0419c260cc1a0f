package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cirrus/internal/state"
)

type viewKind int

const (
	viewResource viewKind = iota
	viewEvents
	viewLogs
)

// tab is one entry of the tab bar. Resource tabs carry their kind.
type tab struct {
	name  string // prefs.DefaultView value
	title string
	view  viewKind
	kind  state.Kind
}

func defaultTabs() []tab {
	return []tab{
		{name: "instances", title: "Linodes", view: viewResource, kind: state.KindInstances},
		{name: "volumes", title: "Volumes", view: viewResource, kind: state.KindVolumes},
		{name: "nodebalancers", title: "NodeBalancers", view: viewResource, kind: state.KindNodeBalancers},
		{name: "domains", title: "Domains", view: viewResource, kind: state.KindDomains},
		{name: "clusters", title: "Kubernetes", view: viewResource, kind: state.KindClusters},
		{name: "buckets", title: "Buckets", view: viewResource, kind: state.KindBuckets},
		{name: "events", title: "Events", view: viewEvents},
		{name: "logs", title: "Logs", view: viewLogs},
	}
}

// tabIndex finds the tab named name, falling back to the first.
func tabIndex(tabs []tab, name string) int {
	for i, t := range tabs {
		if t.name == name {
			return i
		}
	}
	return 0
}

func (m Model) currentTab() tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return m.tabs[0]
	}
	return m.tabs[m.active]
}

// renderTabs renders the tab bar with item counts and the unseen event
// count.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		title := t.title
		switch t.view {
		case viewResource:
			if n := m.count(t.kind); n > 0 {
				title = fmt.Sprintf("%s %d", title, n)
			}
		case viewEvents:
			if m.feed != nil {
				if n := m.feed.CountUnseen(); n > 0 {
					title = fmt.Sprintf("%s (%d)", title, n)
				}
			}
		}
		if i == m.active {
			parts = append(parts, styles.TabActive.Render(title))
		} else {
			parts = append(parts, styles.TabInactive.Render(title))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return lipgloss.NewStyle().Width(m.width).Render(bar)
}

// count is the number of cached items of kind.
func (m Model) count(kind state.Kind) int {
	s := m.snapshot
	switch kind {
	case state.KindInstances:
		return len(s.Instances.ItemsByID)
	case state.KindVolumes:
		return len(s.Volumes.ItemsByID)
	case state.KindNodeBalancers:
		return len(s.NodeBalancers.ItemsByID)
	case state.KindDomains:
		return len(s.Domains.ItemsByID)
	case state.KindClusters:
		return len(s.Clusters.ItemsByID)
	case state.KindBuckets:
		return len(s.Buckets.ItemsByID)
	}
	return 0
}

// renderBody renders the active tab's content area.
func (m Model) renderBody() string {
	t := m.currentTab()
	switch t.view {
	case viewLogs:
		return m.renderLogs()
	case viewEvents:
		if len(m.rows) == 0 {
			return m.renderEmpty("No events yet.")
		}
		return m.table.View()
	}

	if len(m.rows) == 0 {
		return m.renderEmptyKind(t)
	}
	if !m.prefs.SidebarOpen {
		return m.table.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), m.renderSidebar())
}

func (m Model) renderEmptyKind(t tab) string {
	meta := m.meta(t.kind)
	styles := m.theme.Styles()
	switch {
	case meta.loading:
		return m.renderEmpty(m.spinner.View() + " Loading " + strings.ToLower(t.title) + "...")
	case meta.err != "":
		return m.renderEmpty(styles.DangerText.Render("Unable to load " + strings.ToLower(t.title) + ": " + meta.err))
	default:
		return m.renderEmpty("No " + strings.ToLower(t.title) + " on this account.")
	}
}

func (m Model) renderEmpty(text string) string {
	height := max(m.height-5, 3)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		m.theme.Styles().MutedText.Render(text))
}

func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	if m.notice.text == "" {
		return ""
	}
	if m.notice.isErr {
		return styles.DangerText.Width(m.width).Render(truncate(m.notice.text, m.width))
	}
	return styles.SuccessText.Width(m.width).Render(truncate(m.notice.text, m.width))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	sort := fmt.Sprintf("sort: %s %s", m.prefs.SortKey, m.prefs.SortOrder)
	line := m.help.ShortHelpView(m.keys.ShortHelp()) + "  " + styles.FaintText.Render(sort)
	return styles.Footer.Width(m.width).Render(line)
}
