package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"poketally/database"
	"poketally/models"
)

// WithdrawalRepository implements the service.WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

const withdrawalColumns = `id, user_id, market_id, request_number, amount, status, timestamp`

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.MarketID,
		&request.RequestNumber,
		&request.Amount,
		&request.Status,
		&request.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a request. The request number comes from the database
// sequence, so it is unique even across concurrent submissions.
func (r *WithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	query := `
		INSERT INTO withdrawal_requests (user_id, market_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, request_number, timestamp
	`

	err := r.q.QueryRow(ctx, query,
		request.UserID,
		request.MarketID,
		request.Amount,
		request.Status,
	).Scan(&request.ID, &request.RequestNumber, &request.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	return nil
}

// GetByNumber retrieves a request by its number
func (r *WithdrawalRepository) GetByNumber(ctx context.Context, requestNumber int64) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE request_number = $1`

	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, requestNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request #%d: %w", requestNumber, err)
	}

	return request, nil
}

// List returns the newest requests
func (r *WithdrawalRepository) List(ctx context.Context, limit int) ([]*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests ORDER BY timestamp DESC LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.WithdrawalRequest
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// CompleteIfPending transitions pending -> completed with a conditional
// update. The status check in the WHERE clause is what makes completion
// exactly-once: of two racing confirmations, only one changes a row.
func (r *WithdrawalRepository) CompleteIfPending(ctx context.Context, requestNumber int64) (bool, error) {
	query := `
		UPDATE withdrawal_requests
		SET status = $2
		WHERE request_number = $1 AND status = $3
	`

	result, err := r.q.Exec(ctx, query, requestNumber,
		models.WithdrawalStatusCompleted, models.WithdrawalStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to complete withdrawal request #%d: %w", requestNumber, err)
	}

	return result.RowsAffected() > 0, nil
}
