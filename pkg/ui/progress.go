package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"reelgrab/pkg/orchestrator"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ActivityIndicator draws a "Processing..." spinner on one terminal line
// while an orchestrator is busy.
type ActivityIndicator struct {
	out      io.Writer
	interval time.Duration
	label    string
}

// NewActivityIndicator creates an indicator writing to out
func NewActivityIndicator(out io.Writer) *ActivityIndicator {
	return &ActivityIndicator{
		out:      out,
		interval: 100 * time.Millisecond,
		label:    "Processing...",
	}
}

// Run follows statuses until the channel closes or ctx is done
func (a *ActivityIndicator) Run(ctx context.Context, statuses <-chan orchestrator.Status) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	busy := false
	frame := 0
	for {
		select {
		case <-ctx.Done():
			a.clear(busy)
			return
		case s, ok := <-statuses:
			if !ok {
				a.clear(busy)
				return
			}
			if busy && !s.Busy() {
				a.clear(true)
			}
			busy = s.Busy()
			if busy {
				a.draw(frame)
			}
		case <-ticker.C:
			if busy {
				frame++
				a.draw(frame)
			}
		}
	}
}

func (a *ActivityIndicator) draw(frame int) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(a.out, "\r%s %s", Magenta(spinnerFrames[frame%len(spinnerFrames)]), a.label)
}

func (a *ActivityIndicator) clear(wasBusy bool) {
	if !wasBusy || IsQuietMode() {
		return
	}
	fmt.Fprint(a.out, "\r\033[K")
}
