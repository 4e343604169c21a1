package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reelgrab/pkg/orchestrator"
)

// View renders the form
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string

	sections = append(sections,
		titleStyle.Render("Instagram Reel Downloader"),
		subtitleStyle.Render("Download Instagram reels in high quality"),
		"",
		m.input.View(),
		"",
		m.renderButtons(),
	)

	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, "", toasts)
	}

	form := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	help := helpStyle.Render("enter download • ctrl+v paste • esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, form, help) + "\n"
}

func (m *Model) renderButtons() string {
	if m.Busy() {
		return lipgloss.JoinHorizontal(lipgloss.Center,
			buttonDisabledStyle.Render("Paste"),
			"  ",
			processingStyle.Render(m.spinner.View()+" Processing..."),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		buttonStyle.Render("Paste"),
		"  ",
		buttonStyle.Render("Download Reel"),
	)
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, renderToast(t.note))
	}
	return strings.Join(lines, "\n")
}

func renderToast(n orchestrator.Notification) string {
	switch n.Kind {
	case orchestrator.KindSuccess:
		line := successStyle.Render("✓ " + n.Message)
		if n.Location != "" {
			line += " " + subtitleStyle.Render(n.Location)
		}
		return line
	case orchestrator.KindError:
		return errorStyle.Render("✗ " + n.Message)
	default:
		return infoStyle.Render("• " + n.Message)
	}
}
