// Package ui holds the plain terminal output of reelgrab: coloured print
// helpers, the console and desktop Notifier, and the spinner shown while a
// download is in flight. The interactive form lives in ui/tui.
package ui
