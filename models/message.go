package models

import (
	"time"
)

// Message is an append-only log entry for a chat message observed in a
// counting channel. The windowed count of a user's recent entries feeds
// the spam gate.
type Message struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	AuthorID  int64     `db:"author_id"`
	ChannelID int64     `db:"channel_id"`
	IsBot     bool      `db:"is_bot"`
	IsCounted bool      `db:"is_counted"`
	IsSpam    bool      `db:"is_spam"`
	Timestamp time.Time `db:"timestamp"`
}
