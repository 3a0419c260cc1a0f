package ui

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/entity"
	"github.com/five82/cirrus/internal/state"
)

// kindMeta is the cache status of one collection.
type kindMeta struct {
	loading     bool
	err         string
	lastUpdated time.Time
}

func metaOf[ID comparable, T entity.Entity[ID]](s entity.State[ID, T]) kindMeta {
	return kindMeta{loading: s.Loading, err: firstError(s.Error), lastUpdated: s.LastUpdated}
}

func (m Model) meta(kind state.Kind) kindMeta {
	s := m.snapshot
	switch kind {
	case state.KindInstances:
		return metaOf(s.Instances)
	case state.KindVolumes:
		return metaOf(s.Volumes)
	case state.KindNodeBalancers:
		return metaOf(s.NodeBalancers)
	case state.KindDomains:
		return metaOf(s.Domains)
	case state.KindClusters:
		return metaOf(s.Clusters)
	case state.KindBuckets:
		return metaOf(s.Buckets)
	}
	return kindMeta{}
}

// renderHeader renders the status bar: the active collection's loading or
// error state, when it was last updated, in-progress events and the
// connection status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "
	parts := []string{styles.Logo.Render("cirrus")}

	conn := m.snapshot.Connection
	switch {
	case conn.IsOffline():
		parts = append(parts, styles.DangerText.Render("● OFFLINE "+classifyConnectionError(conn.LastError)))
	case conn.LastError != nil:
		parts = append(parts, styles.WarningText.Render("● retrying"))
	case !conn.LastPoll.IsZero():
		parts = append(parts, styles.SuccessText.Render("● online"))
	default:
		parts = append(parts, styles.WarningText.Render("● connecting"))
	}

	if t := m.currentTab(); t.view == viewResource {
		meta := m.meta(t.kind)
		switch {
		case meta.loading:
			parts = append(parts, m.spinner.View()+styles.MutedText.Render(" loading"))
		case meta.err != "":
			parts = append(parts, styles.DangerText.Render(truncate(meta.err, 60)))
		}
		if !meta.lastUpdated.IsZero() {
			ago := humanizeDuration(time.Since(meta.lastUpdated))
			parts = append(parts, styles.MutedText.Render("updated "+ago+ternary(ago == "now", "", " ago")))
		}
	}

	if m.feed != nil {
		if inProgress := m.feed.InProgress(); len(inProgress) > 0 {
			parts = append(parts, styles.InfoText.Render(progressSummary(inProgress)))
		}
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// progressSummary describes running jobs, e.g. "linode_boot web-1 40%" or
// "3 jobs running".
func progressSummary(evs []api.Event) string {
	if len(evs) != 1 {
		return fmt.Sprintf("%d jobs running", len(evs))
	}
	ev := evs[0]
	label := ""
	if ev.Entity != nil {
		label = " " + ev.Entity.Label
	}
	pct, _ := ev.Progress()
	return fmt.Sprintf("%s%s %d%%", ev.Action, label, pct)
}

// classifyConnectionError shortens a poll error for the header.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return "(unauthorized)"
		case 429:
			return "(rate limited)"
		}
		return fmt.Sprintf("(HTTP %d)", apiErr.StatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "(timeout)"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "(connection refused)"
	case strings.Contains(msg, "no such host"):
		return "(DNS failure)"
	}
	return "(unreachable)"
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
