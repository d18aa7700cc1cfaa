package testutil

import (
	"context"
	"testing"

	"poketally/database"
	"poketally/models"

	"github.com/stretchr/testify/require"
)

// InsertTestUser creates a user row and sets its balance.
func InsertTestUser(t *testing.T, db *database.DB, discordID int64, username string, balance int64) *models.User {
	ctx := context.Background()

	var user models.User
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		RETURNING discord_id, username, discriminator, messages, catches, shiny_catches, rare_shiny_catches, balance, created_at, updated_at
	`, discordID, username, balance).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Discriminator,
		&user.Messages,
		&user.Catches,
		&user.ShinyCatches,
		&user.RareShinyCatches,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	require.NoError(t, err)

	return &user
}

// InsertTestWithdrawal creates a pending withdrawal request row.
func InsertTestWithdrawal(t *testing.T, db *database.DB, userID, amount int64, marketID string) *models.WithdrawalRequest {
	ctx := context.Background()

	request := &models.WithdrawalRequest{
		UserID:   userID,
		MarketID: marketID,
		Amount:   amount,
		Status:   models.WithdrawalStatusPending,
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO withdrawal_requests (user_id, market_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, request_number, timestamp
	`, request.UserID, request.MarketID, request.Amount, request.Status).
		Scan(&request.ID, &request.RequestNumber, &request.Timestamp)
	require.NoError(t, err)

	return request
}

// NewTestMessage builds an unsaved counted message log entry.
func NewTestMessage(authorID, channelID int64, content string) *models.Message {
	return &models.Message{
		Content:   content,
		AuthorID:  authorID,
		ChannelID: channelID,
		IsCounted: true,
	}
}
