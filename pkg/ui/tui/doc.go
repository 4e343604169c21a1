// Package tui is the terminal reel download form: one URL input, a paste
// key, a download key, and toasts for the orchestrator's notifications.
package tui
