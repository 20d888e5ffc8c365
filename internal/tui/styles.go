package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	PrimaryColor = lipgloss.Color("39")  // Blue
	AccentColor  = lipgloss.Color("76")  // Green
	ErrorColor   = lipgloss.Color("196") // Red
	MutedColor   = lipgloss.Color("240") // Gray
	TextColor    = lipgloss.Color("252") // Light gray
)

// Styles
var (
	// Results pane
	ResultsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	ResultItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ResultItemSelectedStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("0"))

	ResultItemCurrentStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	// Preview pane
	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	PreviewMessageStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Italic(true)

	PreviewErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Footer help
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)
