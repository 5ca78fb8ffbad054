package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase is the stage a run is in
type Phase int

const (
	PhaseSearching Phase = iota
	PhaseProfiling
	PhaseStopping
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseProfiling:
		return "profiling"
	case PhaseStopping:
		return "stopping"
	default:
		return "done"
	}
}

// ThemeRow is the progress of one theme walk
type ThemeRow struct {
	Theme  string
	Posts  int
	Unique int
}

// Model represents the TUI model
type Model struct {
	spinner     spinner.Model
	profileBar  progress.Model
	budgetBar   progress.Model
	cancel      func()
	cancelOnce  sync.Once

	themes     map[string]*ThemeRow
	themeOrder []string
	current    string

	phase     Phase
	processed int
	total     int
	qualified int

	budgetUsed int
	budgetMax  int

	summary   []string
	startTime time.Time

	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int

	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a model. cancel is called once when the user asks to
// stop; budgetMax is the hourly request budget shown in the budget panel.
func NewModel(cancel func(), budgetMax int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentCyan)

	profileBar := progress.New(progress.WithDefaultGradient())
	budgetBar := progress.New(progress.WithSolidFill(string(accentGreen)))

	return &Model{
		spinner:        s,
		profileBar:     profileBar,
		budgetBar:      budgetBar,
		cancel:         cancel,
		themes:         make(map[string]*ThemeRow),
		budgetMax:      budgetMax,
		startTime:      time.Now(),
		maxLogMessages: 50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// UpdateTheme records the latest page of a theme walk
func (m *Model) UpdateTheme(theme string, posts, unique int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.themes[theme]
	if !ok {
		row = &ThemeRow{Theme: theme}
		m.themes[theme] = row
		m.themeOrder = append(m.themeOrder, theme)
	}
	row.Posts, row.Unique = posts, unique
	m.current = theme
	if m.phase < PhaseStopping {
		m.phase = PhaseSearching
	}
}

// UpdateProfiles records profile progress
func (m *Model) UpdateProfiles(processed, total, qualified int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed, m.total, m.qualified = processed, total, qualified
	if m.phase < PhaseStopping {
		m.phase = PhaseProfiling
	}
}

// UpdateBudget records requests used in the current hour
func (m *Model) UpdateBudget(used int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgetUsed = used
}

// Finish marks the run done and stores the summary lines
func (m *Model) Finish(summary []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = PhaseDone
	m.summary = summary
}

// RequestStop cancels the run once
func (m *Model) RequestStop() {
	m.cancelOnce.Do(func() {
		m.mu.Lock()
		if m.phase != PhaseDone {
			m.phase = PhaseStopping
		}
		m.mu.Unlock()
		if m.cancel != nil {
			m.cancel()
		}
	})
}

// Phase returns the current phase
func (m *Model) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = accentRed
	case "WARN":
		color = accentOrange
	case "SUCCESS":
		color = accentGreen
	case "INFO":
		color = accentCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Themes returns theme rows in the order they were first seen
func (m *Model) Themes() []ThemeRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]ThemeRow, 0, len(m.themeOrder))
	for _, theme := range m.themeOrder {
		rows = append(rows, *m.themes[theme])
	}
	return rows
}

// profileRatio is the profiled fraction in [0, 1]
func (m *Model) profileRatio() float64 {
	if m.total == 0 {
		return 0
	}
	r := float64(m.processed) / float64(m.total)
	if r > 1 {
		return 1
	}
	return r
}

// budgetRatio is the used fraction of the hourly budget in [0, 1]
func (m *Model) budgetRatio() float64 {
	if m.budgetMax <= 0 {
		return 0
	}
	r := float64(m.budgetUsed) / float64(m.budgetMax)
	if r > 1 {
		return 1
	}
	return r
}
