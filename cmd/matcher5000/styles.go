package main

import "github.com/charmbracelet/lipgloss"

var (
	// primaryColor is the main theme color.
	primaryColor = lipgloss.Color("#7D56F4")
	// successColor marks accepted matches and completed work.
	successColor = lipgloss.Color("#4ECDC4")
	// warningColor marks partial results worth a second look.
	warningColor = lipgloss.Color("#FFE66D")
	// errorColor marks failures.
	errorColor = lipgloss.Color("#FF6B6B")
	// subtleColor marks supporting detail.
	subtleColor = lipgloss.Color("#666666")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2)
)
