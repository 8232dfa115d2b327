package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"lazyext/internal/tui/styles"
)

// Spinner is a bubbles spinner followed by a status message
type Spinner struct {
	model   spinner.Model
	message string
}

// NewSpinner creates a spinner showing message
func NewSpinner(message string) Spinner {
	m := spinner.New()
	m.Spinner = spinner.MiniDot
	m.Style = styles.SpinnerStyle
	return Spinner{model: m, message: message}
}

// SetMessage replaces the status message
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Message returns the status message
func (s Spinner) Message() string {
	return s.message
}

// Tick starts the animation
func (s Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

// Update advances the animation on spinner ticks and ignores other messages
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the spinner and its message
func (s Spinner) View() string {
	return s.model.View() + " " + s.message
}
