// Package notification sends desktop notifications through beeep.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/response"
)

// AppName titles every notification.
const AppName = "agentdeck"

const maxBodyRunes = 120

var notify = beeep.Notify

// SetNotifier replaces the notification function. Tests only.
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores beeep.Notify.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send shows a desktop notification.
func Send(title, message string) error {
	log := logger.WithComponent("Notification")
	log.Debug("sending notification", "title", title)
	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady announces an agent reply, using a shortened preview as body.
func ReplyReady(r *response.AgentResponse) error {
	return Send(AppName, "Prometheus replied: "+shorten(response.Preview(r)))
}

// SendFailed announces a failed send.
func SendFailed() error {
	return Send(AppName, "Message failed. Open agentdeck for details.")
}

func shorten(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' {
			runes = runes[:i]
			break
		}
	}
	if len(runes) > maxBodyRunes {
		return string(runes[:maxBodyRunes-1]) + "…"
	}
	return string(runes)
}
