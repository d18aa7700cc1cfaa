package models

// BotSettings is the singleton configuration row controlling the economy.
// Mutated only through admin commands; read on every inbound event.
type BotSettings struct {
	ID                  int64   `db:"id"`
	MessageEventActive  bool    `db:"message_event_active"`
	CatchEventActive    bool    `db:"catch_event_active"`
	PokecoinRate        int64   `db:"pokecoin_rate"`
	MessagesPerReward   int64   `db:"messages_per_reward"`
	CountingChannels    []int64 `db:"counting_channels"`
	ProofsChannelID     int64   `db:"proofs_channel_id"`     // 0 = unset
	WithdrawalChannelID int64   `db:"withdrawal_channel_id"` // 0 = unset

	// Anti-spam settings
	AntiSpamEnabled     bool  `db:"anti_spam_enabled"`
	SpamTimeWindow      int64 `db:"spam_time_window"` // seconds
	MaxMessagesInWindow int64 `db:"max_messages_in_window"`
	MinMessageLength    int64 `db:"min_message_length"`
}

// IsCountingChannel reports whether the channel is eligible for message rewards.
func (s *BotSettings) IsCountingChannel(channelID int64) bool {
	for _, id := range s.CountingChannels {
		if id == channelID {
			return true
		}
	}
	return false
}
