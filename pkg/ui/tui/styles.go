package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	instaPink   = lipgloss.Color("#E1306C")
	instaPurple = lipgloss.Color("#833AB4")
	instaOrange = lipgloss.Color("#F77737")
	okGreen     = lipgloss.Color("#39D353")
	errRed      = lipgloss.Color("#FF4D4F")
	infoBlue    = lipgloss.Color("#4EA8DE")
	dimWhite    = lipgloss.Color("#B0B0B0")
	darkGrey    = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Foreground(instaPink).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(instaPurple).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(instaPurple).
			Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(dimWhite).
				Background(lipgloss.Color("#3A3A3A")).
				Padding(0, 2)

	processingStyle = lipgloss.NewStyle().
			Foreground(instaOrange).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(okGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errRed).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(infoBlue)

	helpStyle = lipgloss.NewStyle().
			Foreground(darkGrey).
			Padding(1, 0, 0, 0)
)
