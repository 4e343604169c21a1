package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal reel download form
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates the form around controller. The controller's notifications
// must be routed to notifier for toasts to appear.
func NewTUI(ctx context.Context, controller Controller, notifier *ChannelNotifier) *TUI {
	model := NewModel(ctx, controller, notifier)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	return &TUI{
		program: program,
		model:   model,
	}
}

// Start runs the form until the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	if t.model.cancelSub != nil {
		t.model.cancelSub()
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Stop stops the form
func (t *TUI) Stop() {
	t.program.Quit()
}
