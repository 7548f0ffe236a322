package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	deviceCodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	paneTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	paneTabActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	closedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))
)
