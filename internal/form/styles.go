package form

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	errorColor   = lipgloss.Color("#FF6B6B")
	mutedColor   = lipgloss.Color("#626262")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				Width(18)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
