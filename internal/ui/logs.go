package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/cirrus/internal/logtail"
)

const logTailLines = 400

// readLogsCmd loads the tail of the console's log file.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{content: "Logging to the terminal; no log file to show."}
		}
		entries, err := logtail.ReadEntries(path, logTailLines, zerolog.DebugLevel)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{content: formatEntries(entries)}
	}
}

// formatEntries renders entries one per line, tagged with a level marker
// the view colors.
func formatEntries(entries []logtail.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, logtail.Format(e))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return m.renderEmpty(styles.DangerText.Render("Unable to read " + m.logFile + ": " + m.logErr.Error()))
	}
	content := m.logView.View()
	if strings.TrimSpace(content) == "" {
		return m.renderEmpty("No log output yet.")
	}
	return colorizeLogLines(content, styles)
}

// colorizeLogLines colors each line by its level tag.
func colorizeLogLines(content string, styles Styles) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = levelStyle(line, styles).Render(line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func levelStyle(line string, styles Styles) lipgloss.Style {
	switch {
	case strings.Contains(line, " ERR "), strings.Contains(line, " FTL "), strings.Contains(line, " PNC "):
		return styles.DangerText
	case strings.Contains(line, " WRN "):
		return styles.WarningText
	case strings.Contains(line, " DBG "), strings.Contains(line, " TRC "):
		return styles.FaintText
	default:
		return styles.Text
	}
}
