package main

import "github.com/charmbracelet/lipgloss"

// Colors used in terminal output.
var (
	colorPrimary = lipgloss.Color("62")  // Purple
	colorMuted   = lipgloss.Color("241") // Gray
	colorAccent  = lipgloss.Color("212") // Pink
	colorSuccess = lipgloss.Color("78")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorError   = lipgloss.Color("196") // Red
)

// titleStyle for section banners.
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// promptStyle for the explorer input prompt.
var promptStyle = lipgloss.NewStyle().
	Foreground(colorAccent).
	Bold(true)

// cardStyle for card names.
var cardStyle = lipgloss.NewStyle().
	Foreground(colorAccent)

// responseStyle frames model output.
var responseStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1).
	Width(88)

var (
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// status renders a check result line.
func status(ok bool, label, detail string) string {
	mark := okStyle.Render("✓")
	if !ok {
		mark = errorStyle.Render("✗")
	}
	if detail == "" {
		return mark + " " + label
	}
	return mark + " " + label + " " + mutedStyle.Render(detail)
}
