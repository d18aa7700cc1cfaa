package models

import (
	"time"
)

// WithdrawalStatus represents the state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// WithdrawalRequest represents a user's intent to redeem pokecoins.
// RequestNumber is unique and assigned from a database sequence.
// Status transitions exactly once, pending -> completed, never reversed.
type WithdrawalRequest struct {
	ID            int64            `db:"id"`
	UserID        int64            `db:"user_id"`
	MarketID      string           `db:"market_id"`
	RequestNumber int64            `db:"request_number"`
	Amount        int64            `db:"amount"`
	Status        WithdrawalStatus `db:"status"`
	Timestamp     time.Time        `db:"timestamp"`
}
