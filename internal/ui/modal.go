package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cirrus/internal/state"
)

// confirmDialog asks before deleting an entity. With typed set the user
// must type the entity's label first.
type confirmDialog struct {
	kind  state.Kind
	id    int
	label string
	typed bool
	input textinput.Model
}

// ready reports whether the dialog may be confirmed.
func (d *confirmDialog) ready() bool {
	return !d.typed || strings.TrimSpace(d.input.Value()) == d.label
}

// openConfirm opens the delete dialog for the selected row. Buckets and the
// Events and Logs tabs cannot delete.
func (m *Model) openConfirm() {
	t := m.currentTab()
	if t.view != viewResource || t.kind == state.KindBuckets {
		return
	}
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	in := textinput.New()
	in.Placeholder = r.label
	in.CharLimit = 128
	in.Prompt = "› "
	m.confirm = &confirmDialog{
		kind:  t.kind,
		id:    r.id,
		label: r.label,
		typed: m.prefs.TypeToConfirm,
		input: in,
	}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.confirm
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.confirm = nil
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if !d.ready() {
			return m, nil
		}
		m.confirm = nil
		return m, m.deleteCmd(d.kind, d.id, d.label)
	}
	if !d.typed {
		if msg.String() == "y" {
			m.confirm = nil
			return m, m.deleteCmd(d.kind, d.id, d.label)
		}
		if msg.String() == "n" {
			m.confirm = nil
		}
		return m, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return m, cmd
}

func (m Model) deleteCmd(kind state.Kind, id int, label string) tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		err := fetcher.Delete(ctx, kind, id)
		return actionDoneMsg{label: fmt.Sprintf("delete %s", label), err: err}
	}
}

func (m Model) renderConfirm() string {
	styles := m.theme.Styles()
	d := m.confirm

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %s?", d.label)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("This cannot be undone."))
	b.WriteString("\n\n")
	if d.typed {
		b.WriteString(styles.Text.Render("Type the label to confirm:"))
		b.WriteString("\n")
		b.WriteString(d.input.View())
		b.WriteString("\n\n")
		hint := "enter delete · esc cancel"
		if !d.ready() {
			hint = "esc cancel"
		}
		b.WriteString(styles.FaintText.Render(hint))
	} else {
		b.WriteString(styles.FaintText.Render("y/enter delete · n/esc cancel"))
	}

	dialog := styles.Dialog.Width(min(60, max(m.width-4, 20))).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
