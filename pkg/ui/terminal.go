package ui

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/fatih/color"
)

// Logo is printed above interactive commands
const Logo = `
   ┏━┓┏━╸┏━╸╻  ┏━╸┏━┓┏━┓┏┓
   ┣┳┛┣╸ ┣╸ ┃  ┃╺┓┣┳┛┣━┫┣┻┓
   ╹┗╸┗━╸┗━╸┗━╸┗━┛╹┗╸╹ ╹┗━┛
`

// Output is where terminal helpers write. color.Output handles Windows
// consoles.
var Output io.Writer = color.Output

var quiet atomic.Bool

// SetQuietMode suppresses everything but errors
func SetQuietMode(q bool) { quiet.Store(q) }

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool { return quiet.Load() }

// Color functions for terminal output
var (
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
)

// PrintLogo prints the logo with the build version
func PrintLogo(version string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprint(Output, Cyan(Logo))
	fmt.Fprintln(Output, Dim("   instagram reel downloader "+version))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Fprintln(Output, Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Fprintln(Output, Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintln(Output, Magenta(msg))
}
