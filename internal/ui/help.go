package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the full key map over the screen.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	full := m.help
	full.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Logo.Render("cirrus"))
	b.WriteString(styles.MutedText.Render("  keyboard shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(full.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Theme: " + m.theme.Name + " (" + strings.Join(ThemeNames(), ", ") + ")"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.Dialog.Render(b.String()))
}
