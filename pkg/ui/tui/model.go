package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"reelgrab/pkg/instagram"
	"reelgrab/pkg/orchestrator"
)

const (
	maxToasts     = 4
	toastLifetime = 5 * time.Second
)

// Controller is the part of the orchestrator the form drives
type Controller interface {
	DownloadReel(ctx context.Context, rawURL string)
	Paste(ctx context.Context) (string, bool)
	Subscribe() (<-chan orchestrator.Status, func())
}

// toast is one notification line shown under the form
type toast struct {
	id      int
	note    orchestrator.Notification
	created time.Time
}

// Model is the reel download form
type Model struct {
	ctx        context.Context
	controller Controller
	toastCh    <-chan orchestrator.Notification
	statusCh   <-chan orchestrator.Status
	cancelSub  func()

	input   textinput.Model
	spinner spinner.Model

	status  orchestrator.Status
	pending bool
	toasts  []toast
	nextID  int

	width    int
	quitting bool
}

// NewModel creates the form. Notifications delivered to notifier show up
// as toasts.
func NewModel(ctx context.Context, controller Controller, notifier *ChannelNotifier) *Model {
	input := textinput.New()
	input.Placeholder = "Paste Instagram reel URL (e.g. " + instagram.ExampleReelURL + ")"
	input.CharLimit = 512
	input.Width = 72
	input.Prompt = "› "
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(instaOrange)

	m := &Model{
		ctx:        ctx,
		controller: controller,
		input:      input,
		spinner:    s,
	}
	if notifier != nil {
		m.toastCh = notifier.C()
	}
	m.statusCh, m.cancelSub = controller.Subscribe()
	return m
}

// Busy reports whether the controls are disabled
func (m *Model) Busy() bool {
	return m.pending || m.status.Busy()
}

// Value returns the current input text
func (m *Model) Value() string {
	return m.input.Value()
}

// Toasts returns the messages currently shown
func (m *Model) Toasts() []orchestrator.Notification {
	out := make([]orchestrator.Notification, len(m.toasts))
	for i, t := range m.toasts {
		out[i] = t.note
	}
	return out
}

func (m *Model) addToast(n orchestrator.Notification) int {
	m.nextID++
	m.toasts = append(m.toasts, toast{id: m.nextID, note: n, created: time.Now()})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return m.nextID
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// ChannelNotifier forwards notifications to the form
type ChannelNotifier struct {
	ch chan orchestrator.Notification
}

// NewChannelNotifier creates a notifier with room for a few pending toasts
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan orchestrator.Notification, 16)}
}

// Notify queues n, dropping it if the form is not keeping up
func (c *ChannelNotifier) Notify(n orchestrator.Notification) {
	select {
	case c.ch <- n:
	default:
	}
}

// C returns the receive side
func (c *ChannelNotifier) C() <-chan orchestrator.Notification {
	return c.ch
}
