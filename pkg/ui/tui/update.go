package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"reelgrab/pkg/orchestrator"
)

// StatusMsg carries an orchestrator status change
type StatusMsg orchestrator.Status

// NotificationMsg carries a toast
type NotificationMsg orchestrator.Notification

// PasteMsg is the result of a clipboard read
type PasteMsg struct {
	Text string
	OK   bool
}

// DownloadDoneMsg is sent when a submitted download returns
type DownloadDoneMsg struct{}

type expireToastMsg struct{ id int }

// Init starts listening for status changes and toasts
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.waitForStatus(),
		m.waitForToast(),
		m.spinner.Tick,
	)
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StatusMsg:
		m.status = orchestrator.Status(msg)
		m.syncInput()
		return m, m.waitForStatus()

	case NotificationMsg:
		id := m.addToast(orchestrator.Notification(msg))
		return m, tea.Batch(m.waitForToast(), expireToast(id))

	case expireToastMsg:
		m.dropToast(msg.id)
		return m, nil

	case PasteMsg:
		if msg.OK {
			m.input.SetValue(msg.Text)
			m.input.CursorEnd()
		}
		return m, m.input.Focus()

	case DownloadDoneMsg:
		m.pending = false
		m.syncInput()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		if m.cancelSub != nil {
			m.cancelSub()
		}
		return m, tea.Quit

	case "ctrl+v":
		if m.Busy() {
			return m, nil
		}
		return m, m.pasteCmd()

	case "enter":
		if m.Busy() {
			return m, nil
		}
		m.pending = true
		m.syncInput()
		return m, m.downloadCmd(m.input.Value())
	}

	if m.Busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncInput disables the input while busy
func (m *Model) syncInput() {
	if m.Busy() {
		m.input.Blur()
	}
}

// Commands

func (m *Model) downloadCmd(rawURL string) tea.Cmd {
	return func() tea.Msg {
		m.controller.DownloadReel(m.ctx, rawURL)
		return DownloadDoneMsg{}
	}
}

func (m *Model) pasteCmd() tea.Cmd {
	return func() tea.Msg {
		text, ok := m.controller.Paste(m.ctx)
		return PasteMsg{Text: text, OK: ok}
	}
}

func (m *Model) waitForStatus() tea.Cmd {
	ch := m.statusCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StatusMsg(s)
	}
}

func (m *Model) waitForToast() tea.Cmd {
	ch := m.toastCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg(n)
	}
}

func expireToast(id int) tea.Cmd {
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return expireToastMsg{id: id}
	})
}
