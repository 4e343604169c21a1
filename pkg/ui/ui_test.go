package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reelerrors "reelgrab/pkg/errors"
	"reelgrab/pkg/orchestrator"
)

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(title, message string) error {
	r.sent = append(r.sent, title+": "+message)
	return r.err
}

func TestNotifierPrintsToasts(t *testing.T) {
	var buf bytes.Buffer
	sender := &recordingSender{}
	n := NewNotifierWithSender(&buf, sender, true)

	n.Notify(orchestrator.Notification{Kind: orchestrator.KindInfo, Message: orchestrator.MsgStarted})
	n.Notify(orchestrator.Notification{
		Kind:     orchestrator.KindSuccess,
		Message:  orchestrator.MsgSuccess,
		Location: "downloads/instagram-reel.mp4",
		Size:     2_500_000,
	})

	out := buf.String()
	assert.Contains(t, out, "Download started!")
	assert.Contains(t, out, "Reel downloaded successfully!")
	assert.Contains(t, out, "2.5 MB")
	assert.Contains(t, out, "downloads/instagram-reel.mp4")

	require.Len(t, sender.sent, 1, "info toasts stay in the terminal")
	assert.Equal(t, "reelgrab: Reel downloaded successfully! downloads/instagram-reel.mp4", sender.sent[0])
}

func TestNotifierDisabledStillShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	sender := &recordingSender{err: errors.New("notify-send missing")}
	n := NewNotifierWithSender(&buf, sender, false)

	n.Notify(orchestrator.Notification{Kind: orchestrator.KindSuccess, Message: orchestrator.MsgSuccess})
	assert.Empty(t, buf.String())

	n.Notify(orchestrator.Notification{
		Kind:      orchestrator.KindError,
		Message:   reelerrors.MsgNetwork,
		ErrorType: reelerrors.ErrorTypeNetwork,
	})
	assert.Contains(t, buf.String(), reelerrors.MsgNetwork)
	assert.Len(t, sender.sent, 1)

	n.Notify(orchestrator.Notification{
		Kind:      orchestrator.KindError,
		Message:   reelerrors.MsgInvalidURL,
		ErrorType: reelerrors.ErrorTypeValidation,
	})
	assert.Contains(t, buf.String(), reelerrors.MsgInvalidURL)
	assert.Len(t, sender.sent, 1, "validation errors are not sent to the desktop")
}

func TestFormatNotification(t *testing.T) {
	assert.Contains(t, FormatNotification(orchestrator.Notification{Kind: orchestrator.KindError, Message: "boom"}), "✗ boom")
	assert.Contains(t, FormatNotification(orchestrator.Notification{Kind: orchestrator.KindInfo, Message: "hi"}), "• hi")
	assert.NotContains(t, FormatNotification(orchestrator.Notification{Kind: orchestrator.KindSuccess, Message: "ok"}), "(")
}

func TestAppleScriptEscape(t *testing.T) {
	assert.Equal(t, `say \"hi\" \\ bye`, appleScriptEscape(`say "hi" \ bye`))
}

func TestActivityIndicator(t *testing.T) {
	var buf bytes.Buffer
	ind := NewActivityIndicator(&buf)
	ind.interval = 5 * time.Millisecond

	statuses := make(chan orchestrator.Status, 3)
	statuses <- orchestrator.Status{State: orchestrator.InFlight}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ind.Run(context.Background(), statuses)
	}()

	time.Sleep(30 * time.Millisecond)
	statuses <- orchestrator.Status{State: orchestrator.Idle}
	close(statuses)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("indicator did not stop")
	}

	assert.Contains(t, buf.String(), "Processing...")
	assert.Contains(t, buf.String(), "\r\033[K")
}

func TestActivityIndicatorStopsOnContext(t *testing.T) {
	ind := NewActivityIndicator(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ind.Run(ctx, make(chan orchestrator.Status))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("indicator ignored cancellation")
	}
}

func TestQuietMode(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	SetQuietMode(true)
	defer SetQuietMode(false)

	PrintSuccess("hidden")
	PrintInfo("label", "hidden")
	PrintError("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
