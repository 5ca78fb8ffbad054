package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentCyan    = lipgloss.Color("#36C5F0")
	accentMagenta = lipgloss.Color("#B266FF")
	accentGreen   = lipgloss.Color("#2ECC71")
	accentYellow  = lipgloss.Color("#F1C40F")
	accentOrange  = lipgloss.Color("#FF8C42")
	accentRed     = lipgloss.Color("#FF4D4D")
	panelBg       = lipgloss.Color("#001935")
	dimWhite      = lipgloss.Color("#B0B0B0")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true).
			Padding(1, 0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentMagenta).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(accentMagenta).
			Foreground(panelBg).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(accentOrange).
			Bold(true)

	activeRowStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)
)

// phaseStyle colors the phase label
func phaseStyle(p Phase) lipgloss.Style {
	switch p {
	case PhaseStopping:
		return warningStyle
	case PhaseDone:
		return successStyle
	default:
		return labelStyle
	}
}
