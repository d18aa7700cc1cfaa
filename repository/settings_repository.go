package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"poketally/database"
	"poketally/models"
)

// SettingsRepository implements the service.SettingsRepository interface
// over the singleton bot_settings row.
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// newSettingsRepositoryWithTx creates a new settings repository with a transaction
func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

const settingsColumns = `id, message_event_active, catch_event_active, pokecoin_rate, messages_per_reward, counting_channels, proofs_channel_id, withdrawal_channel_id, anti_spam_enabled, spam_time_window, max_messages_in_window, min_message_length`

func scanSettings(row pgx.Row) (*models.BotSettings, error) {
	var settings models.BotSettings
	err := row.Scan(
		&settings.ID,
		&settings.MessageEventActive,
		&settings.CatchEventActive,
		&settings.PokecoinRate,
		&settings.MessagesPerReward,
		&settings.CountingChannels,
		&settings.ProofsChannelID,
		&settings.WithdrawalChannelID,
		&settings.AntiSpamEnabled,
		&settings.SpamTimeWindow,
		&settings.MaxMessagesInWindow,
		&settings.MinMessageLength,
	)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Get returns the settings row, creating it with schema defaults when the
// table is empty.
func (r *SettingsRepository) Get(ctx context.Context) (*models.BotSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM bot_settings ORDER BY id LIMIT 1`

	settings, err := scanSettings(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return r.createDefaults(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

func (r *SettingsRepository) createDefaults(ctx context.Context) (*models.BotSettings, error) {
	query := `INSERT INTO bot_settings DEFAULT VALUES RETURNING ` + settingsColumns

	settings, err := scanSettings(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	return settings, nil
}

func (r *SettingsRepository) update(ctx context.Context, set string, args ...any) error {
	query := `UPDATE bot_settings SET ` + set + ` WHERE id = (SELECT id FROM bot_settings ORDER BY id LIMIT 1)`

	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.createDefaults(ctx); err != nil {
			return err
		}
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
	}

	return nil
}

func (r *SettingsRepository) SetMessageEventActive(ctx context.Context, active bool) error {
	return r.update(ctx, `message_event_active = $1`, active)
}

func (r *SettingsRepository) SetCatchEventActive(ctx context.Context, active bool) error {
	return r.update(ctx, `catch_event_active = $1`, active)
}

func (r *SettingsRepository) SetPokecoinRate(ctx context.Context, rate int64) error {
	return r.update(ctx, `pokecoin_rate = $1`, rate)
}

func (r *SettingsRepository) SetMessagesPerReward(ctx context.Context, count int64) error {
	return r.update(ctx, `messages_per_reward = $1`, count)
}

// AddCountingChannel enrolls a channel, ignoring duplicates.
func (r *SettingsRepository) AddCountingChannel(ctx context.Context, channelID int64) error {
	return r.update(ctx,
		`counting_channels = CASE WHEN $1 = ANY(counting_channels) THEN counting_channels ELSE array_append(counting_channels, $1) END`,
		channelID)
}

func (r *SettingsRepository) RemoveCountingChannel(ctx context.Context, channelID int64) error {
	return r.update(ctx, `counting_channels = array_remove(counting_channels, $1)`, channelID)
}

func (r *SettingsRepository) SetProofsChannel(ctx context.Context, channelID int64) error {
	return r.update(ctx, `proofs_channel_id = $1`, channelID)
}

func (r *SettingsRepository) SetWithdrawalChannel(ctx context.Context, channelID int64) error {
	return r.update(ctx, `withdrawal_channel_id = $1`, channelID)
}

func (r *SettingsRepository) SetAntiSpam(ctx context.Context, enabled bool, windowSeconds, maxMessages, minLength int64) error {
	return r.update(ctx,
		`anti_spam_enabled = $1, spam_time_window = $2, max_messages_in_window = $3, min_message_length = $4`,
		enabled, windowSeconds, maxMessages, minLength)
}
