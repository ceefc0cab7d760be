package ui

import "github.com/charmbracelet/lipgloss"

// The palette follows the warm-amber terminal theme: accent 208, bright
// text 252, dim gray 243, red 196 for high/overdue, amber 214 for
// medium/due-soon, dark gray 240 for done rows.
var (
	accentColor  = lipgloss.Color("208")
	textColor    = lipgloss.Color("252")
	dimColor     = lipgloss.Color("243")
	borderColor  = lipgloss.Color("238")
	doneColor    = lipgloss.Color("240")
	highColor    = lipgloss.Color("196")
	mediumColor  = lipgloss.Color("214")
	overdueColor = lipgloss.Color("196")
	dueSoonColor = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Reverse(true).
			Foreground(accentColor).
			Padding(0, 1)

	textStyle    = lipgloss.NewStyle().Foreground(textColor)
	dimStyle     = lipgloss.NewStyle().Foreground(dimColor)
	accentStyle  = lipgloss.NewStyle().Foreground(accentColor)
	selectStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(doneColor)
	barFillStyle = lipgloss.NewStyle().Foreground(accentColor)
	barRestStyle = lipgloss.NewStyle().Foreground(borderColor)
	overdueStyle = lipgloss.NewStyle().Foreground(overdueColor).Bold(true)
	dueSoonStyle = lipgloss.NewStyle().Foreground(dueSoonColor)
	columnStyle  = lipgloss.NewStyle().Foreground(dimColor).Bold(true)
	toastStyle   = lipgloss.NewStyle().
			Foreground(accentColor).
			Reverse(true).
			Bold(true).
			Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	keyStyle    = lipgloss.NewStyle().
			Foreground(accentColor).
			Reverse(true).
			Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(highColor).Bold(true)
)

func priorityStyle(rank int) lipgloss.Style {
	switch rank {
	case 3:
		return lipgloss.NewStyle().Foreground(highColor)
	case 2:
		return lipgloss.NewStyle().Foreground(mediumColor)
	}
	return dimStyle
}

// UI symbols shared by the list and modal views.
const (
	symbolSelection   = "▸"
	symbolDone        = "✔"
	symbolPending     = "○"
	symbolBarFill     = "━"
	symbolBarRest     = "─"
	symbolOrderAsc    = "↑"
	symbolOrderDesc   = "↓"
	symbolListDivider = "·"
)
