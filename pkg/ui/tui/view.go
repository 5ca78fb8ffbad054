package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const logRows = 8

// View renders the entire TUI
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{m.renderHeader()}

	half := (m.width - 4) / 2
	sections = append(sections, lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderThemesPanel(half),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left,
			m.renderProfilePanel(half),
			m.renderBudgetPanel(half),
		),
	))

	if len(m.summary) > 0 {
		sections = append(sections, m.renderSummaryPanel(m.width-2))
	}
	sections = append(sections, m.renderLogsPanel(m.width-2))

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	status := m.spinner.View()
	if m.phase == PhaseDone {
		status = successStyle.Render("✓")
	}
	return headerStyle.Render(fmt.Sprintf("%s blogfinder  %s  %s",
		status,
		phaseStyle(m.phase).Render(strings.ToUpper(m.phase.String())),
		valueStyle.Render(formatDuration(time.Since(m.startTime))),
	))
}

func (m *Model) renderThemesPanel(width int) string {
	title := titleStyle.Render(" THEMES ")

	if len(m.themeOrder) == 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, rowStyle.Render("Waiting for first page...")))
	}

	rows := []string{title}
	for _, theme := range m.themeOrder {
		row := m.themes[theme]
		line := fmt.Sprintf("#%-18s %5d posts %5d blogs", truncate(row.Theme, 18), row.Posts, row.Unique)
		if theme == m.current && m.phase == PhaseSearching {
			rows = append(rows, activeRowStyle.Render("▸ "+line))
		} else {
			rows = append(rows, rowStyle.Render("  "+line))
		}
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderProfilePanel(width int) string {
	title := titleStyle.Render(" PROFILES ")

	bar := m.profileBar
	bar.Width = max(width-6, 10)

	content := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Processed:"), valueStyle.Render(fmt.Sprintf("%d/%d", m.processed, m.total))),
		fmt.Sprintf("%s %s", labelStyle.Render("Qualified:"), successStyle.Render(fmt.Sprint(m.qualified))),
		bar.ViewAs(m.profileRatio()),
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")))
}

func (m *Model) renderBudgetPanel(width int) string {
	title := titleStyle.Render(" HOURLY BUDGET ")

	if m.budgetMax <= 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, rowStyle.Render("Unlimited")))
	}

	bar := m.budgetBar
	bar.Width = max(width-6, 10)
	usage := fmt.Sprintf("%d/%d requests", m.budgetUsed, m.budgetMax)
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, valueStyle.Render(usage), bar.ViewAs(m.budgetRatio())))
}

func (m *Model) renderSummaryPanel(width int) string {
	title := titleStyle.Render(" SUMMARY ")
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, strings.Join(m.summary, "\n")))
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOG ")

	start := max(len(m.logMessages)-logRows, 0)
	var logs []string
	for _, entry := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(entry.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(entry.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", entry.Level))
		message := logMessageStyle.Render(truncate(entry.Message, max(width-25, 10)))
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = rowStyle.Render("No messages yet...")
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/esc/ctrl+c - Stop the run (keeps results found so far)
    q            - Exit once the run has finished
    ctrl+l       - Clear the log
    ?            - Toggle this help
`
	return panelStyle.Width(m.width - 2).Render(help)
}

// truncate shortens s to n runes, marking the cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
