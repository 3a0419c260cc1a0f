package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cirrus/internal/api"
	"github.com/five82/cirrus/internal/prefs"
	"github.com/five82/cirrus/internal/state"
)

func newTestModel(t *testing.T, p prefs.Prefs) Model {
	t.Helper()
	m := New(Options{Prefs: p, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	return update(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNew_StartsOnDefaultView(t *testing.T) {
	p := prefs.Default()
	p.DefaultView = "events"
	m := New(Options{Prefs: p})
	if got := m.currentTab().view; got != viewEvents {
		t.Fatalf("start view = %v, want events", got)
	}

	p.DefaultView = "nonsense"
	m = New(Options{Prefs: p})
	if got := m.currentTab().kind; got != state.KindInstances {
		t.Fatalf("start kind = %q, want instances fallback", got)
	}
}

func TestModel_TabCyclesAndWraps(t *testing.T) {
	m := newTestModel(t, prefs.Default())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.currentTab().view; got != viewLogs {
		t.Fatalf("shift+tab from first tab = %v, want logs", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.currentTab().kind; got != state.KindInstances {
		t.Fatalf("tab from logs = %q, want instances", got)
	}
}

func TestModel_SelectionFollowsEntity(t *testing.T) {
	m := newTestModel(t, prefs.Default())
	m = update(t, m, snapshotMsg(instanceSnapshot(t,
		api.Instance{ID: 1, Label: "b"},
		api.Instance{ID: 2, Label: "c"},
	)))
	m = press(t, m, "j")
	if r, _ := m.selectedRow(); r.label != "c" {
		t.Fatalf("selected = %q, want c", r.label)
	}

	// A new instance sorting first shifts rows; the selection stays on c.
	m = update(t, m, snapshotMsg(instanceSnapshot(t,
		api.Instance{ID: 1, Label: "b"},
		api.Instance{ID: 2, Label: "c"},
		api.Instance{ID: 3, Label: "a"},
	)))
	if r, _ := m.selectedRow(); r.label != "c" {
		t.Fatalf("selected after refresh = %q, want c", r.label)
	}
}

func TestModel_SortKeysSavePrefs(t *testing.T) {
	m := newTestModel(t, prefs.Default())
	m = update(t, m, snapshotMsg(instanceSnapshot(t,
		api.Instance{ID: 1, Label: "a"},
		api.Instance{ID: 2, Label: "b"},
	)))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(Model)
	if m.prefs.SortOrder != "desc" {
		t.Fatalf("SortOrder = %q, want desc", m.prefs.SortOrder)
	}
	if labels(m.rows)[0] != "b" {
		t.Fatalf("rows = %v, want b first", labels(m.rows))
	}
	if cmd == nil {
		t.Fatalf("expected a save command")
	}
	if msg, ok := cmd().(actionDoneMsg); !ok || msg.err != nil {
		t.Fatalf("save result = %#v", msg)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.SortOrder != "desc" {
		t.Fatalf("saved SortOrder = %q, want desc", saved.SortOrder)
	}
}

func TestModel_DeleteRequiresTypedLabel(t *testing.T) {
	p := prefs.Default()
	p.TypeToConfirm = true
	m := newTestModel(t, p)
	m = update(t, m, snapshotMsg(instanceSnapshot(t, api.Instance{ID: 7, Label: "web-1"})))

	m = press(t, m, "x")
	if m.confirm == nil || m.confirm.id != 7 || !m.confirm.typed {
		t.Fatalf("confirm = %+v, want typed dialog for 7", m.confirm)
	}

	m = press(t, m, "web")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirm == nil {
		t.Fatalf("dialog closed on a partial label")
	}

	m = press(t, m, "-1")
	if !m.confirm.ready() {
		t.Fatalf("dialog not ready after typing the label (value %q)", m.confirm.input.Value())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirm != nil {
		t.Fatalf("dialog still open after confirming")
	}
}

func TestModel_DeleteCancelAndBuckets(t *testing.T) {
	p := prefs.Default()
	p.TypeToConfirm = false
	m := newTestModel(t, p)
	m = update(t, m, snapshotMsg(instanceSnapshot(t, api.Instance{ID: 7, Label: "web-1"})))

	m = press(t, m, "x")
	if m.confirm == nil || m.confirm.typed {
		t.Fatalf("confirm = %+v, want untyped dialog", m.confirm)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.confirm != nil {
		t.Fatalf("esc did not close the dialog")
	}

	m.active = tabIndex(m.tabs, "buckets")
	m = press(t, m, "x")
	if m.confirm != nil {
		t.Fatalf("buckets opened a delete dialog")
	}
}

func TestModel_ViewRenders(t *testing.T) {
	m := newTestModel(t, prefs.Default())
	if out := m.View(); out == "" || out == "Loading..." {
		t.Fatalf("View() = %q, want rendered screen", out)
	}
	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("? did not open help")
	}
	m = press(t, m, "z")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}
