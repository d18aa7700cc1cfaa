package service

import (
	"poketally/models"
)

// Mention identifies a user mentioned in a message.
type Mention struct {
	ID            int64
	Username      string
	Discriminator string
}

// InboundMessage is a normalized inbound chat event, decoupled from the
// gateway library so the core can be tested without a Discord session.
type InboundMessage struct {
	AuthorID            int64
	AuthorUsername      string
	AuthorDiscriminator string
	IsBot               bool
	Content             string
	ChannelID           int64
	Mentions            []Mention
	EmbedText           string
}

// MessageResult describes the outcome of recording a chat message.
type MessageResult struct {
	User         *models.User
	Counted      bool
	SpamReason   string
	Rewarded     bool
	RewardAmount int64
}

// CatchResult describes the outcome of processing a catch announcement.
type CatchResult struct {
	Recognized bool
	Counted    bool
	Tier       models.CatchTier
	UserID     int64
}

// WithdrawalQuote is returned when a withdrawal request passes validation
// and a pending entry has been stored.
type WithdrawalQuote struct {
	Amount  int64
	Balance int64
}

// CompletionResult describes a successful withdrawal completion.
type CompletionResult struct {
	Request    *models.WithdrawalRequest
	NewBalance int64
}

// ResetCategory selects which counters a reset clears.
type ResetCategory string

const (
	ResetMessages ResetCategory = "messages"
	ResetCatches  ResetCategory = "catches"
	ResetAll      ResetCategory = "all"
)

// ParseResetCategory validates a user-supplied reset category.
func ParseResetCategory(s string) (ResetCategory, bool) {
	switch ResetCategory(s) {
	case ResetMessages, ResetCatches, ResetAll:
		return ResetCategory(s), true
	}
	return "", false
}

// LeaderboardKind selects the stat a leaderboard ranks by.
type LeaderboardKind string

const (
	LeaderboardMessages LeaderboardKind = "messages"
	LeaderboardCatches  LeaderboardKind = "catches"
)

// LeaderboardEntry is one row of a leaderboard.
type LeaderboardEntry struct {
	UserID  int64
	Count   int64
	Balance int64
}

// Leaderboard is a ranked listing plus server-wide totals.
type Leaderboard struct {
	Kind        LeaderboardKind
	Entries     []LeaderboardEntry
	Total       int64
	ActiveUsers int
}

// ProfileStats summarizes a single user's standing.
type ProfileStats struct {
	User        *models.User
	MessageRank int
	CatchRank   int
	TotalUsers  int
}

// CatchSummary summarizes a user's catches against the server totals.
type CatchSummary struct {
	User        *models.User
	Rank        int
	TotalUsers  int
	ServerTotal int64
}
