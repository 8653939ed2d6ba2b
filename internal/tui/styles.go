package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	sharedStyle = lipgloss.NewStyle().Faint(true)
)

func renderPage(title, body, help string) string {
	return appStyle.Render(
		titleStyle.Render(title) + "\n\n" + body + "\n\n" + helpStyle.Render(help),
	)
}
