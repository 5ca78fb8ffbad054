package ui

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=blogfinder", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(message), strconv.Quote(title))
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
		$text = $xml.GetElementsByTagName("text")
		$text.Item(0).AppendChild($xml.CreateTextNode(%s)) | Out-Null
		$text.Item(1).AppendChild($xml.CreateTextNode(%s)) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("blogfinder").Show($toast)
	`, psQuote(title), psQuote(message))
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// psQuote wraps s in single quotes for PowerShell
func psQuote(s string) string {
	out := []rune{'\''}
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(append(out, '\''))
}

// Notifier prints a message and, when enabled, raises a desktop notification
type Notifier struct {
	sender NotificationSender
	out    io.Writer
}

// NewNotifier creates a Notifier for the current platform. Desktop
// notifications are sent only when desktop is true.
func NewNotifier(out io.Writer, desktop bool) *Notifier {
	if !desktop {
		return NewNotifierWithSender(out, nil)
	}
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}
	return NewNotifierWithSender(out, sender)
}

// NewNotifierWithSender creates a Notifier with an explicit sender; nil
// disables desktop notifications.
func NewNotifierWithSender(out io.Writer, sender NotificationSender) *Notifier {
	return &Notifier{sender: sender, out: out}
}

// SendSuccess reports a successful outcome
func (n *Notifier) SendSuccess(title, message string) {
	n.send(Green(title), Green(message), title, message)
}

// SendWarning reports an outcome that needs attention
func (n *Notifier) SendWarning(title, message string) {
	n.send(Yellow(title), Yellow(message), title, message)
}

// SendError reports a failure
func (n *Notifier) SendError(title, message string) {
	n.send(Red(title), Red(message), title, message)
}

func (n *Notifier) send(styledTitle, styledMessage, title, message string) {
	if n.out != nil {
		fmt.Fprintf(n.out, "\n%s: %s\n", styledTitle, styledMessage)
	}
	if n.sender != nil {
		// desktop notifications are best effort
		_ = n.sender.Send(title, message)
	}
}
