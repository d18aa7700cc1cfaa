package service

import (
	"strings"

	"poketally/models"
)

// SpamVerdict is the outcome of the spam gate for one message.
type SpamVerdict struct {
	Blocked bool
	Reason  string
}

// EvaluateSpam applies the anti-spam rules to a chat message.
// recentCount is the number of the author's own non-bot messages already
// logged inside the configured window, so with maxMessagesInWindow = N the
// (N+1)-th message in the window is the first one blocked.
func EvaluateSpam(settings *models.BotSettings, content string, recentCount int64) SpamVerdict {
	if !settings.AntiSpamEnabled {
		return SpamVerdict{}
	}

	if int64(len(strings.TrimSpace(content))) < settings.MinMessageLength {
		return SpamVerdict{Blocked: true, Reason: "message too short"}
	}

	if recentCount >= settings.MaxMessagesInWindow {
		return SpamVerdict{Blocked: true, Reason: "too many messages in short time"}
	}

	return SpamVerdict{}
}
