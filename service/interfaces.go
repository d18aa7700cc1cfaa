package service

import (
	"context"
	"time"

	"poketally/events"
	"poketally/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil when absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Create creates a new user with zeroed counters and balance
	Create(ctx context.Context, discordID int64, username, discriminator string) (*models.User, error)

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)

	// IncrementMessages bumps the message counter and returns the new count
	IncrementMessages(ctx context.Context, discordID int64) (int64, error)

	// IncrementCatches bumps the catch counters for the given tier,
	// maintaining rare_shiny <= shiny <= catches
	IncrementCatches(ctx context.Context, discordID int64, tier models.CatchTier) error

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, discordID int64, amount int64) error

	// DeductBalance deducts from a user's balance with a single conditional
	// update, returning ErrInsufficientBalance when balance < amount
	DeductBalance(ctx context.Context, discordID int64, amount int64) error

	// SetBalance overwrites a user's balance
	SetBalance(ctx context.Context, discordID int64, amount int64) error

	// ResetStats zeroes the selected counters for one user
	ResetStats(ctx context.Context, discordID int64, category ResetCategory) error

	// ResetAllStats zeroes the selected counters for every user
	ResetAllStats(ctx context.Context, category ResetCategory) error
}

// SettingsRepository defines the interface for the singleton settings row
type SettingsRepository interface {
	// Get returns the settings row, creating defaults when absent
	Get(ctx context.Context) (*models.BotSettings, error)

	SetMessageEventActive(ctx context.Context, active bool) error
	SetCatchEventActive(ctx context.Context, active bool) error
	SetPokecoinRate(ctx context.Context, rate int64) error
	SetMessagesPerReward(ctx context.Context, count int64) error
	AddCountingChannel(ctx context.Context, channelID int64) error
	RemoveCountingChannel(ctx context.Context, channelID int64) error
	SetProofsChannel(ctx context.Context, channelID int64) error
	SetWithdrawalChannel(ctx context.Context, channelID int64) error
	SetAntiSpam(ctx context.Context, enabled bool, windowSeconds, maxMessages, minLength int64) error
}

// MessageRepository defines the interface for the append-only message log
type MessageRepository interface {
	// Create appends a log entry, filling ID and Timestamp
	Create(ctx context.Context, message *models.Message) error

	// CountRecentByAuthor counts the author's non-bot messages newer than
	// now minus window
	CountRecentByAuthor(ctx context.Context, authorID int64, window time.Duration) (int64, error)

	// ListRecent returns the newest entries across all channels
	ListRecent(ctx context.Context, limit int) ([]*models.Message, error)

	// ListByChannel returns the newest entries for one channel
	ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Message, error)
}

// WithdrawalRepository defines the interface for withdrawal request data access
type WithdrawalRepository interface {
	// Create persists a request, assigning RequestNumber from the database
	// sequence and filling ID and Timestamp
	Create(ctx context.Context, request *models.WithdrawalRequest) error

	// GetByNumber retrieves a request by its number, nil when absent
	GetByNumber(ctx context.Context, requestNumber int64) (*models.WithdrawalRequest, error)

	// List returns the newest requests
	List(ctx context.Context, limit int) ([]*models.WithdrawalRequest, error)

	// CompleteIfPending transitions pending -> completed with a conditional
	// update and reports whether a row actually changed
	CompleteIfPending(ctx context.Context, requestNumber int64) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	SettingsRepository() SettingsRepository
	MessageRepository() MessageRepository
	WithdrawalRepository() WithdrawalRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LedgerService owns balance and counter mutations
type LedgerService interface {
	// RecordChatMessage persists a candidate chat message, applies the spam
	// gate, advances the message counter and credits rewards
	RecordChatMessage(ctx context.Context, msg InboundMessage) (*MessageResult, error)

	// Credit adds pokecoins to a user's balance
	Credit(ctx context.Context, discordID int64, amount int64) error

	// Debit removes pokecoins, failing with ErrInsufficientBalance
	Debit(ctx context.Context, discordID int64, amount int64) error

	// SetBalance overwrites a balance, returning the previous value
	SetBalance(ctx context.Context, discordID int64, amount int64) (oldBalance int64, err error)

	// ResetUser zeroes the selected counters for one user
	ResetUser(ctx context.Context, discordID int64, category ResetCategory) error

	// ResetAll zeroes the selected counters for every user
	ResetAll(ctx context.Context, category ResetCategory) error
}

// CatchService grades and records catch announcements
type CatchService interface {
	// ProcessCatch inspects an automated catch-source message and, when it
	// is a recognized catch and the catch event is active, records it
	ProcessCatch(ctx context.Context, msg InboundMessage) (*CatchResult, error)
}

// WithdrawalService drives the withdrawal state machine
type WithdrawalService interface {
	// Request validates the amount and stores an ephemeral pending entry
	Request(ctx context.Context, msg InboundMessage, amount int64) (*WithdrawalQuote, error)

	// SubmitMarketID consumes the pending entry and persists the request
	SubmitMarketID(ctx context.Context, userID int64, marketID string) (*models.WithdrawalRequest, error)

	// Complete performs debit, conditional status transition and, on a lost
	// race, the compensating credit
	Complete(ctx context.Context, requestNumber int64) (*CompletionResult, error)
}

// SettingsService exposes admin mutations over the settings row
type SettingsService interface {
	Get(ctx context.Context) (*models.BotSettings, error)
	SetEventActive(ctx context.Context, event string, active bool) error
	SetRewardRate(ctx context.Context, messagesPerReward, pokecoinRate int64) error
	SetProofsChannel(ctx context.Context, channelID int64) error
	SetWithdrawalChannel(ctx context.Context, channelID int64) error
	AddCountingChannel(ctx context.Context, channelID int64) error
	RemoveCountingChannel(ctx context.Context, channelID int64) error
}

// StatsService computes read-only projections for the stat commands
type StatsService interface {
	GetProfile(ctx context.Context, msg InboundMessage) (*ProfileStats, error)
	GetCatchSummary(ctx context.Context, msg InboundMessage) (*CatchSummary, error)
	GetLeaderboard(ctx context.Context, kind LeaderboardKind, limit int) (*Leaderboard, error)
}
