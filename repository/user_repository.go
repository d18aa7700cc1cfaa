package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"poketally/database"
	"poketally/models"
	"poketally/service"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `discord_id, username, discriminator, messages, catches, shiny_catches, rare_shiny_catches, balance, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
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
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE discord_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return user, nil
}

// Create creates a new user with zeroed counters and balance
func (r *UserRepository) Create(ctx context.Context, discordID int64, username, discriminator string) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, username, discriminator)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID, username, discriminator))
	if err != nil {
		return nil, fmt.Errorf("failed to create user with discord ID %d: %w", discordID, err)
	}

	return user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY discord_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// IncrementMessages bumps the message counter and returns the new count
func (r *UserRepository) IncrementMessages(ctx context.Context, discordID int64) (int64, error) {
	query := `
		UPDATE users
		SET messages = messages + 1, updated_at = NOW()
		WHERE discord_id = $1
		RETURNING messages
	`

	var count int64
	err := r.q.QueryRow(ctx, query, discordID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment messages for user %d: %w", discordID, err)
	}

	return count, nil
}

// IncrementCatches bumps the catch counters for the given tier. A rare
// shiny also counts as a shiny, and every tier counts as a catch, keeping
// rare_shiny_catches <= shiny_catches <= catches.
func (r *UserRepository) IncrementCatches(ctx context.Context, discordID int64, tier models.CatchTier) error {
	query := `
		UPDATE users
		SET catches = catches + 1,
		    shiny_catches = shiny_catches + CASE WHEN $2 IN ('shiny', 'rare_shiny') THEN 1 ELSE 0 END,
		    rare_shiny_catches = rare_shiny_catches + CASE WHEN $2 = 'rare_shiny' THEN 1 ELSE 0 END,
		    updated_at = NOW()
		WHERE discord_id = $1
	`

	result, err := r.q.Exec(ctx, query, discordID, string(tier))
	if err != nil {
		return fmt.Errorf("failed to increment catches for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", service.ErrNotFound, discordID)
	}

	return nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) error {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE discord_id = $1
	`

	result, err := r.q.Exec(ctx, query, discordID, amount)
	if err != nil {
		return fmt.Errorf("failed to add balance for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", service.ErrNotFound, discordID)
	}

	return nil
}

// DeductBalance deducts from a user's balance with a single conditional
// update. The balance guard lives in the WHERE clause, so a concurrent
// debit can never push the balance negative.
func (r *UserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) error {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE discord_id = $1 AND balance >= $2
	`

	result, err := r.q.Exec(ctx, query, discordID, amount)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d, amount %d", service.ErrInsufficientBalance, discordID, amount)
	}

	return nil
}

// SetBalance overwrites a user's balance
func (r *UserRepository) SetBalance(ctx context.Context, discordID int64, amount int64) error {
	query := `
		UPDATE users
		SET balance = $2, updated_at = NOW()
		WHERE discord_id = $1
	`

	result, err := r.q.Exec(ctx, query, discordID, amount)
	if err != nil {
		return fmt.Errorf("failed to set balance for user %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", service.ErrNotFound, discordID)
	}

	return nil
}

// ResetStats zeroes the selected counters for one user
func (r *UserRepository) ResetStats(ctx context.Context, discordID int64, category service.ResetCategory) error {
	query := resetQuery(category) + ` WHERE discord_id = $1`

	result, err := r.q.Exec(ctx, query, discordID)
	if err != nil {
		return fmt.Errorf("failed to reset %s for user %d: %w", category, discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", service.ErrNotFound, discordID)
	}

	return nil
}

// ResetAllStats zeroes the selected counters for every user
func (r *UserRepository) ResetAllStats(ctx context.Context, category service.ResetCategory) error {
	if _, err := r.q.Exec(ctx, resetQuery(category)); err != nil {
		return fmt.Errorf("failed to reset %s for all users: %w", category, err)
	}
	return nil
}

// resetQuery builds the UPDATE for a reset category. The partial resets
// leave balances alone; a full reset wipes them too.
func resetQuery(category service.ResetCategory) string {
	switch category {
	case service.ResetMessages:
		return `UPDATE users SET messages = 0, updated_at = NOW()`
	case service.ResetCatches:
		return `UPDATE users SET catches = 0, shiny_catches = 0, rare_shiny_catches = 0, updated_at = NOW()`
	default:
		return `UPDATE users SET messages = 0, catches = 0, shiny_catches = 0, rare_shiny_catches = 0, balance = 0, updated_at = NOW()`
	}
}
