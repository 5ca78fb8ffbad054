package tui

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// maxBacklog bounds the messages held before the program starts
const maxBacklog = 256

// TUI runs the full-screen progress view. It implements search.Reporter so
// it can be handed straight to the finder. Messages sent before Start are
// queued and delivered in order once the program is running, so callers
// never block on a program that has not started.
type TUI struct {
	program *tea.Program
	model   *Model

	mu      sync.Mutex
	live    bool
	backlog []tea.Msg
}

// NewTUI creates a TUI. cancel is invoked when the user asks to stop.
func NewTUI(cancel func(), budgetMax int, opts ...tea.ProgramOption) *TUI {
	model := NewModel(cancel, budgetMax)
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the program until the user quits
func (t *TUI) Start() error {
	go t.flush()
	_, err := t.program.Run()
	return err
}

// flush replays queued messages, then switches Send to direct delivery.
// Program.Send blocks until the event loop reads, so this runs beside Run.
func (t *TUI) flush() {
	for {
		t.mu.Lock()
		if len(t.backlog) == 0 {
			t.live = true
			t.mu.Unlock()
			return
		}
		batch := t.backlog
		t.backlog = nil
		t.mu.Unlock()

		for _, msg := range batch {
			t.program.Send(msg)
		}
	}
}

// Stop quits the program
func (t *TUI) Stop() {
	t.program.Quit()
}

// RequestStop cancels the run as if the user had pressed q
func (t *TUI) RequestStop() {
	t.model.RequestStop()
}

// Phase returns the phase the view is showing
func (t *TUI) Phase() Phase {
	return t.model.Phase()
}

// Send sends a message to the TUI, queueing it until the program runs
func (t *TUI) Send(msg tea.Msg) {
	if t.program == nil {
		return
	}
	t.mu.Lock()
	if !t.live {
		if len(t.backlog) == maxBacklog {
			t.backlog = t.backlog[1:]
		}
		t.backlog = append(t.backlog, msg)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.program.Send(msg)
}

// SearchProgress reports a theme page
func (t *TUI) SearchProgress(theme string, posts, unique int) {
	t.Send(ThemeProgressMsg{Theme: theme, Posts: posts, Unique: unique})
}

// ProfileProgress reports a profiled blog
func (t *TUI) ProfileProgress(processed, total, qualified int) {
	t.Send(ProfileProgressMsg{Processed: processed, Total: total, Qualified: qualified})
}

// UpdateBudget reports requests used this hour
func (t *TUI) UpdateBudget(used int) {
	t.Send(BudgetMsg{Used: used})
}

// Done shows the summary and waits for the user to exit
func (t *TUI) Done(summary []string) {
	t.Send(DoneMsg{Summary: summary})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

