package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the monitor dashboard
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - healthy markers
	ErrorColor   = lipgloss.Color("#FF5555") // Red - failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - degraded state
	MutedColor   = lipgloss.Color("#626262") // Gray - labels, help
	TextColor    = lipgloss.Color("#FFFFFF") // White - values
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// TitleStyle is for the dashboard header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// SubtitleStyle is for the version tag next to the title
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// PanelTitleStyle is for section headers inside panels
	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// LabelStyle is for row labels (fixed width keeps values aligned)
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(18)

	// ValueStyle is for row values
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// GoodStyle marks healthy states
	GoodStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// BadStyle marks failures and missing links
	BadStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// WarnStyle marks degraded-but-running states
	WarnStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// HelpStyle is for the key help footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// Status markers
const (
	MarkerUp   = "●"
	MarkerDown = "○"
)

// PanelStyle returns the bordered container style for a dashboard panel.
func PanelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Padding(0, 1)
}

// GetTerminalSize returns the current terminal size, clamped to the
// supported range, with a fallback for non-terminal stdout.
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if width > MaxContentWidth {
		width = MaxContentWidth
	}
	return width, height
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
