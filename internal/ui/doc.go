// Package ui provides the cirrus terminal console.
//
// # Architecture Overview
//
// The console is a Bubble Tea program. Model reads state.Snapshot values
// from the shared store once per tick and renders them; it never mutates the
// cache directly. Refreshes and deletes run as tea.Cmds through the fetch
// layer, whose reducers update the store. The next snapshot shows the result.
//
// # Package Structure
//
//   - app.go: Model, messages, commands and Run
//   - navigation.go: tabs, body layout, notices and footer
//   - table.go: rows, columns and sorting per resource type and for events
//   - detail.go: sidebar with details and nested children
//   - header.go: connection, loading, error and progress status
//   - modal.go: delete confirmation (optionally type-to-confirm)
//   - logs.go: Logs tab backed by logtail
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go: color themes (Nightfox, Kanagawa, Slate)
//
// # Tabs
//
// One tab per resource type (Linodes, Volumes, NodeBalancers, Domains,
// Kubernetes, Buckets) plus Events and Logs. The starting tab is the
// default_view preference.
//
// Resource tabs are sorted by the sort_key and sort_order preferences. The
// selection follows the same entity across refreshes. With the sidebar open,
// selecting an instance loads its disks and configs, and selecting a node
// balancer loads its port configs. Each is requested once until the next
// manual refresh.
//
// Opening the Events tab marks every event up to the newest as seen. Events
// about entities that have since been deleted are marked ✗, unseen ones •.
//
// # Status
//
// The header shows the connection state (online, retrying, or OFFLINE
// after two failed polls). For the active tab it adds a loading spinner
// or the read error, and the time since the last update. It also lists
// running jobs from the event feed.
//
// Errors from refreshes and deletes appear as a notice above the footer and
// stay until the next action. Successful deletes show a short-lived notice.
//
// # Keyboard Shortcuts
//
//	tab/shift+tab  switch tabs
//	j/k, g/G       move the selection
//	r              refresh the active tab
//	x              delete the selected entity
//	s / S          flip sort order / next sort column
//	b              toggle the sidebar
//	T              cycle theme
//	?              help
//	q              quit
//
// Theme, sort and sidebar changes are saved to the preferences file right
// away.
package ui
