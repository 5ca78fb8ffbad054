package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ThemeProgressMsg is sent after each page of a theme walk
type ThemeProgressMsg struct {
	Theme  string
	Posts  int
	Unique int
}

// ProfileProgressMsg is sent after each profiled blog
type ProfileProgressMsg struct {
	Processed int
	Total     int
	Qualified int
}

// BudgetMsg carries the requests used in the current hour
type BudgetMsg struct {
	Used int
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// DoneMsg ends the run. The view keeps showing Summary until the user quits.
type DoneMsg struct {
	Summary []string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width, m.height = msg.Width, msg.Height
		m.mu.Unlock()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.Phase() == PhaseDone {
			return m, nil
		}
		return m, tickCmd()

	case ThemeProgressMsg:
		m.UpdateTheme(msg.Theme, msg.Posts, msg.Unique)
		return m, nil

	case ProfileProgressMsg:
		m.UpdateProfiles(msg.Processed, msg.Total, msg.Qualified)
		return m, nil

	case BudgetMsg:
		m.UpdateBudget(msg.Used)
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil

	case DoneMsg:
		m.Finish(msg.Summary)
		m.AddLogMessage("SUCCESS", "Run finished, press q to exit")
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c", "esc":
		if m.Phase() == PhaseDone {
			return m, tea.Quit
		}
		if m.Phase() != PhaseStopping {
			m.AddLogMessage("WARN", "Stopping after the current request...")
		}
		m.RequestStop()
		return m, nil

	case "?":
		m.mu.Lock()
		m.showHelp = !m.showHelp
		m.mu.Unlock()
		return m, nil

	case "ctrl+l":
		m.mu.Lock()
		m.logMessages = nil
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
