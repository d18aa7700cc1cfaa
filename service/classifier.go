package service

import (
	"strings"

	"poketally/models"
)

// Category is the routing decision for an inbound message.
type Category int

const (
	// CategoryCatchAnnouncement routes to the catch grader.
	CategoryCatchAnnouncement Category = iota
	// CategoryIgnoredBot drops messages from other automated accounts.
	CategoryIgnoredBot
	// CategoryCommand routes to the command dispatcher.
	CategoryCommand
	// CategoryPayConfirm routes to the withdrawal completion step.
	CategoryPayConfirm
	// CategoryChatMessage routes to the spam gate and ledger.
	CategoryChatMessage
	// CategoryDiscard drops the message without persisting it.
	CategoryDiscard
)

// Classifier decides how an inbound message is routed. The decision order
// matters: catch-source messages win over the generic bot filter, and the
// command prefix wins over the pay-confirm token.
type Classifier struct {
	prefix           string
	payConfirmToken  string
	catchSourceBotID int64
}

// NewClassifier creates a classifier for the given command surface.
func NewClassifier(prefix, payConfirmToken string, catchSourceBotID int64) *Classifier {
	return &Classifier{
		prefix:           prefix,
		payConfirmToken:  payConfirmToken,
		catchSourceBotID: catchSourceBotID,
	}
}

// Classify routes a normalized inbound message. Settings gate only the
// chat-message branch: a message that is neither a command nor a catch is
// countable only when the message event is on and the channel is enrolled.
func (c *Classifier) Classify(msg InboundMessage, settings *models.BotSettings) Category {
	if msg.AuthorID == c.catchSourceBotID {
		return CategoryCatchAnnouncement
	}
	if msg.IsBot {
		return CategoryIgnoredBot
	}
	if strings.HasPrefix(msg.Content, c.prefix) {
		return CategoryCommand
	}
	if strings.HasPrefix(msg.Content, c.payConfirmToken) {
		return CategoryPayConfirm
	}
	if !settings.MessageEventActive || !settings.IsCountingChannel(msg.ChannelID) {
		return CategoryDiscard
	}
	return CategoryChatMessage
}
