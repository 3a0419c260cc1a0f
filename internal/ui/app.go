package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/events"
	"github.com/five82/cirrus/internal/fetch"
	"github.com/five82/cirrus/internal/prefs"
	"github.com/five82/cirrus/internal/state"
)

// EventSource polls the account event stream on demand.
type EventSource interface {
	Poll(ctx context.Context) error
	MarkSeen(ctx context.Context, id int) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Fetcher   *fetch.Fetcher
	Feed      *events.Feed
	Poller    EventSource
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
	Logger    zerolog.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	fetcher   *fetch.Fetcher
	store     *state.Store
	feed      *events.Feed
	poller    EventSource
	log       zerolog.Logger
	prefs     prefs.Prefs
	prefsPath string
	logFile   string
	tick      time.Duration

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	tabs    []tab
	active  int
	width   int
	height  int
	ready   bool

	// Data state
	snapshot state.Snapshot
	rows     []row
	table    table.Model
	// children already requested, keyed by tab kind and parent id
	requested map[childKey]bool

	// Logs tab
	logView viewport.Model
	logErr  error

	// Overlays
	showHelp bool
	confirm  *confirmDialog
	notice   notice
}

type childKey struct {
	kind state.Kind
	id   int
}

// notice is a one-line message under the table. Errors stay until the next
// action; info notices fade after a few seconds.
type notice struct {
	text  string
	isErr bool
	at    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	var store *state.Store
	if opts.Fetcher != nil {
		store = opts.Fetcher.Store()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	theme := GetTheme(opts.Prefs.Theme)
	sp.Style = theme.Styles().AccentText

	m := Model{
		ctx:       ctx,
		fetcher:   opts.Fetcher,
		store:     store,
		feed:      opts.Feed,
		poller:    opts.Poller,
		log:       opts.Logger,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		tick:      tick,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		tabs:      defaultTabs(),
		requested: map[childKey]bool{},
		table:     table.New(table.WithFocused(true)),
		logView:   viewport.New(0, 0),
	}
	m.active = tabIndex(m.tabs, opts.Prefs.DefaultView)
	m.applyTableStyles()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick), m.spinner.Tick}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resize()
		m.rebuildRows()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.rebuildRows()
		return m, m.loadChildrenCmd()

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = notice{text: msg.label + " failed: " + msg.err.Error(), isErr: true, at: time.Now()}
		} else if msg.label != "" {
			m.notice = notice{text: msg.label, at: time.Now()}
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case logsMsg:
		m.logErr = msg.err
		wasAtBottom := m.logView.AtBottom()
		m.logView.SetContent(msg.content)
		if wasAtBottom {
			m.logView.GotoBottom()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		m.renderBody(),
		m.renderNotice(),
		m.renderFooter(),
	)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.applyTableStyles()
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.active + 1) % len(m.tabs))

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.active - 1 + len(m.tabs)) % len(m.tabs))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.SortOrder):
		m.prefs.ToggleSortOrder()
		m.rebuildRows()
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.SortKey):
		m.prefs.NextSortKey()
		m.rebuildRows()
		return m, m.savePrefsCmd()

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.prefs.SidebarOpen = !m.prefs.SidebarOpen
		m.resize()
		return m, tea.Batch(m.savePrefsCmd(), m.loadChildrenCmd())

	case key.Matches(msg, m.keys.Delete):
		m.openConfirm()
		if m.confirm != nil && m.confirm.typed {
			return m, m.confirm.input.Focus()
		}
		return m, nil
	}

	if m.currentTab().view == viewLogs {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		return m, tea.Batch(cmd, m.loadChildrenCmd())
	}
	return m, cmd
}

func (m Model) switchTab(idx int) (tea.Model, tea.Cmd) {
	m.active = idx
	m.rows = nil
	m.table.SetCursor(0)
	m.resize()
	m.rebuildRows()

	var cmds []tea.Cmd
	switch m.currentTab().view {
	case viewLogs:
		cmds = append(cmds, readLogsCmd(m.logFile))
	case viewEvents:
		if cmd := m.markSeenCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		cmds = append(cmds, m.loadChildrenCmd())
	}
	return m, tea.Batch(cmds...)
}

// handleTick refreshes the snapshot and, on the Logs tab, the log tail.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentTab().view == viewLogs {
		cmds = append(cmds, readLogsCmd(m.logFile))
	}
	if !m.notice.isErr && m.notice.text != "" && time.Since(m.notice.at) > 5*time.Second {
		m.notice = notice{}
	}
	return m, tea.Batch(cmds...)
}

// rebuildRows recomputes the visible rows from the snapshot and prefs,
// keeping the cursor on the same entity when it is still present.
func (m *Model) rebuildRows() {
	selected := ""
	if cur := m.table.Cursor(); cur >= 0 && cur < len(m.rows) {
		selected = m.rows[cur].key
	}

	t := m.currentTab()
	var rows []row
	var cols []column
	switch t.view {
	case viewResource:
		rows = kindRows(t.kind, m.snapshot)
		sortRows(rows, m.prefs.SortKey, m.prefs.SortOrder)
		cols = kindColumns[t.kind]
	case viewEvents:
		if m.feed != nil {
			rows = eventRows(m.feed.Events())
		}
		cols = eventColumns
	}
	m.rows = rows

	// Columns must be replaced while the table is empty; rows wider than
	// the column set cannot be rendered.
	m.table.SetRows(nil)
	m.table.SetColumns(layoutColumns(cols, m.tableWidth()))
	m.table.SetRows(tableRows(rows))

	cursor := 0
	for i, r := range rows {
		if r.key == selected {
			cursor = i
			break
		}
	}
	m.table.SetCursor(cursor)
}

func (m *Model) resize() {
	bodyHeight := max(m.height-5, 3) // header, tabs, notice, footer
	m.table.SetHeight(bodyHeight)
	m.table.SetWidth(m.tableWidth())
	m.logView.Width = m.width
	m.logView.Height = bodyHeight
}

func (m Model) tableWidth() int {
	if m.prefs.SidebarOpen && m.currentTab().view == viewResource {
		return max(m.width-m.sidebarWidth(), 20)
	}
	return m.width
}

func (m Model) sidebarWidth() int {
	return min(max(m.width/3, 30), 60)
}

func (m *Model) applyTableStyles() {
	styles := m.theme.Styles()
	m.table.SetStyles(table.Styles{
		Header:   styles.TableHeader,
		Cell:     styles.TableCell,
		Selected: styles.Selected,
	})
	m.spinner.Style = styles.AccentText
}

func (m Model) selectedRow() (row, bool) {
	cur := m.table.Cursor()
	if cur < 0 || cur >= len(m.rows) {
		return row{}, false
	}
	return m.rows[cur], true
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// actionDoneMsg reports a finished refresh, delete or prefs save. label
// is shown as a notice; an empty label with a nil error shows nothing.
type actionDoneMsg struct {
	label string
	err   error
}

type logsMsg struct {
	content string
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd reloads the active tab.
func (m Model) refreshCmd() tea.Cmd {
	t := m.currentTab()
	ctx := m.ctx
	switch t.view {
	case viewResource:
		if m.fetcher == nil {
			return nil
		}
		fetcher := m.fetcher
		clear(m.requested)
		return func() tea.Msg {
			return actionDoneMsg{err: fetcher.Load(ctx, t.kind)}
		}
	case viewEvents:
		if m.poller == nil {
			return nil
		}
		poller := m.poller
		return func() tea.Msg {
			return actionDoneMsg{err: poller.Poll(ctx)}
		}
	case viewLogs:
		return readLogsCmd(m.logFile)
	}
	return nil
}

// markSeenCmd marks every event up to the newest as seen.
func (m Model) markSeenCmd() tea.Cmd {
	if m.feed == nil || m.poller == nil || m.feed.CountUnseen() == 0 {
		return nil
	}
	items := m.feed.Events()
	if len(items) == 0 {
		return nil
	}
	newest := items[0].ID
	ctx, poller := m.ctx, m.poller
	return func() tea.Msg {
		if err := poller.MarkSeen(ctx, newest); err != nil {
			return actionDoneMsg{label: "mark events seen", err: err}
		}
		return actionDoneMsg{}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	path, p, log := m.prefsPath, m.prefs, m.log
	return func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("save prefs failed")
			return actionDoneMsg{label: "save preferences", err: err}
		}
		return actionDoneMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled from outside (signal); not a UI failure.
		return nil
	}
	return err
}
