package ui

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"

	"reelgrab/pkg/config"
	"reelgrab/pkg/errors"
	"reelgrab/pkg/orchestrator"
)

const notificationTitle = "reelgrab"

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		appleScriptEscape(message), appleScriptEscape(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleScriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("reelgrab").Show($toast)
	`, title, message)

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// platformSender returns the desktop sender for the current OS, or nil
func platformSender() NotificationSender {
	switch runtime.GOOS {
	case "linux":
		return &LinuxNotificationSender{}
	case "darwin":
		return &MacOSNotificationSender{}
	case "windows":
		return &WindowsNotificationSender{}
	default:
		return nil
	}
}

// Notifier prints download notifications as coloured toast lines and
// optionally mirrors successes and errors to the desktop.
type Notifier struct {
	out     io.Writer
	sender  NotificationSender
	console bool
	enabled bool
}

// NewNotifier creates a console notifier configured from cfg
func NewNotifier(cfg config.NotificationConfig) *Notifier {
	n := &Notifier{out: Output, console: true, enabled: cfg.Enabled}
	if cfg.Desktop {
		n.sender = platformSender()
	}
	return n
}

// NewDesktopNotifier creates a notifier that only talks to the desktop.
// It returns nil when desktop notifications are off.
func NewDesktopNotifier(cfg config.NotificationConfig) *Notifier {
	if !cfg.Desktop {
		return nil
	}
	return &Notifier{out: io.Discard, sender: platformSender(), enabled: cfg.Enabled}
}

// NewNotifierWithSender creates a notifier writing to out and sending
// through sender, which may be nil.
func NewNotifierWithSender(out io.Writer, sender NotificationSender, enabled bool) *Notifier {
	return &Notifier{out: out, sender: sender, console: true, enabled: enabled}
}

// Notify implements orchestrator.Notifier. Errors are always shown; info
// and success toasts are dropped when notifications are disabled.
func (n *Notifier) Notify(note orchestrator.Notification) {
	if note.Kind != orchestrator.KindError && (!n.enabled || IsQuietMode()) {
		return
	}

	if n.console {
		fmt.Fprintln(n.out, FormatNotification(note))
	}

	// desktop delivery is best effort. Input mistakes stay in the terminal.
	if n.sender != nil && note.Kind != orchestrator.KindInfo && !errors.IsLocal(note.ErrorType) {
		_ = n.sender.Send(notificationTitle, plainMessage(note))
	}
}

// FormatNotification renders a notification as one coloured line
func FormatNotification(note orchestrator.Notification) string {
	switch note.Kind {
	case orchestrator.KindSuccess:
		return Green("✓ "+note.Message) + successDetail(note)
	case orchestrator.KindError:
		return Red("✗ " + note.Message)
	default:
		return Cyan("• " + note.Message)
	}
}

func successDetail(note orchestrator.Notification) string {
	var parts []string
	if note.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(note.Size)))
	}
	if note.Location != "" {
		parts = append(parts, note.Location)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + Dim("("+strings.Join(parts, ", ")+")")
}

func plainMessage(note orchestrator.Notification) string {
	if note.Kind == orchestrator.KindSuccess && note.Location != "" {
		return note.Message + " " + note.Location
	}
	return note.Message
}
