package repository

import (
	"context"
	"fmt"
	"time"

	"poketally/database"
	"poketally/models"
)

// MessageRepository implements the service.MessageRepository interface
type MessageRepository struct {
	q queryable
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{q: db.Pool}
}

// newMessageRepositoryWithTx creates a new message repository with a transaction
func newMessageRepositoryWithTx(tx queryable) *MessageRepository {
	return &MessageRepository{q: tx}
}

// Create appends a log entry, filling ID and Timestamp
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (content, author_id, channel_id, is_bot, is_counted, is_spam)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp
	`

	err := r.q.QueryRow(ctx, query,
		message.Content,
		message.AuthorID,
		message.ChannelID,
		message.IsBot,
		message.IsCounted,
		message.IsSpam,
	).Scan(&message.ID, &message.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create message log entry: %w", err)
	}

	return nil
}

// CountRecentByAuthor counts the author's non-bot messages newer than now
// minus window
func (r *MessageRepository) CountRecentByAuthor(ctx context.Context, authorID int64, window time.Duration) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE author_id = $1 AND NOT is_bot AND timestamp > NOW() - $2::interval
	`

	var count int64
	err := r.q.QueryRow(ctx, query, authorID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent messages for author %d: %w", authorID, err)
	}

	return count, nil
}

// ListRecent returns the newest entries across all channels
func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, content, author_id, channel_id, is_bot, is_counted, is_spam, timestamp
		FROM messages
		ORDER BY timestamp DESC
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

// ListByChannel returns the newest entries for one channel
func (r *MessageRepository) ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, content, author_id, channel_id, is_bot, is_counted, is_spam, timestamp
		FROM messages
		WHERE channel_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	return r.list(ctx, query, channelID, limit)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(
			&m.ID,
			&m.Content,
			&m.AuthorID,
			&m.ChannelID,
			&m.IsBot,
			&m.IsCounted,
			&m.IsSpam,
			&m.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}
