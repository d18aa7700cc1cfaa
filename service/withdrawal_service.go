package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"poketally/events"
	"poketally/models"
)

type withdrawalService struct {
	uowFactory UnitOfWorkFactory
	pending    *PendingWithdrawalStore
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(uowFactory UnitOfWorkFactory, pending *PendingWithdrawalStore) WithdrawalService {
	return &withdrawalService{
		uowFactory: uowFactory,
		pending:    pending,
	}
}

// Request validates the amount against the user's live balance and parks it
// in the ephemeral store until the user supplies a market ID. A repeated
// request replaces the previous pending amount.
func (s *withdrawalService) Request(ctx context.Context, msg InboundMessage, amount int64) (*WithdrawalQuote, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := getOrCreateUser(ctx, uow, msg.AuthorID, msg.AuthorUsername, msg.AuthorDiscriminator)
	if err != nil {
		return nil, err
	}

	if user.Balance < amount {
		return nil, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientBalance, user.Balance, amount)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.pending.Put(msg.AuthorID, amount)

	return &WithdrawalQuote{Amount: amount, Balance: user.Balance}, nil
}

// SubmitMarketID consumes the pending entry and persists the request. The
// entry is removed before validation, so an empty market ID costs the user
// their pending amount and they must start over.
func (s *withdrawalService) SubmitMarketID(ctx context.Context, userID int64, marketID string) (*models.WithdrawalRequest, error) {
	amount, ok := s.pending.Get(userID)
	if !ok {
		return nil, ErrExpiredRequest
	}
	s.pending.Remove(userID)

	marketID = strings.TrimSpace(marketID)
	if marketID == "" {
		return nil, fmt.Errorf("%w: market ID is required", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request := &models.WithdrawalRequest{
		UserID:   userID,
		MarketID: marketID,
		Amount:   amount,
		Status:   models.WithdrawalStatusPending,
	}
	if err := uow.WithdrawalRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalLoggedEvent{
		UserID:        userID,
		RequestNumber: request.RequestNumber,
		Amount:        amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":        userID,
		"requestNumber": request.RequestNumber,
		"amount":        amount,
	}).Info("Withdrawal request logged")

	return request, nil
}

// Complete settles a withdrawal exactly once. A request already marked
// completed is rejected before any balance mutation. Otherwise the balance
// is debited first, then the pending -> completed transition is attempted
// with a conditional update; if another completion won the race, the debit
// is reversed in the same transaction and the whole thing commits as a
// no-op with a refund.
func (s *withdrawalService) Complete(ctx context.Context, requestNumber int64) (*CompletionResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.WithdrawalRepository().GetByNumber(ctx, requestNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: withdrawal request #%d", ErrNotFound, requestNumber)
	}
	if request.Status == models.WithdrawalStatusCompleted {
		return nil, fmt.Errorf("%w: withdrawal request #%d", ErrAlreadyProcessed, requestNumber)
	}

	user, err := uow.UserRepository().GetByDiscordID(ctx, request.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, request.UserID)
	}

	if err := uow.UserRepository().DeductBalance(ctx, request.UserID, request.Amount); err != nil {
		return nil, err
	}

	transitioned, err := uow.WithdrawalRepository().CompleteIfPending(ctx, requestNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to complete withdrawal request: %w", err)
	}
	if !transitioned {
		// Lost the race: refund the debit and commit so the attempt
		// leaves the ledger untouched.
		if err := uow.UserRepository().AddBalance(ctx, request.UserID, request.Amount); err != nil {
			return nil, fmt.Errorf("failed to refund debit: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, fmt.Errorf("%w: withdrawal request #%d", ErrAlreadyProcessed, requestNumber)
	}

	newBalance := user.Balance - request.Amount
	request.Status = models.WithdrawalStatusCompleted

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       request.UserID,
		OldBalance:   user.Balance,
		NewBalance:   newBalance,
		ChangeAmount: -request.Amount,
		Reason:       "withdrawal",
	})
	uow.EventBus().Publish(events.WithdrawalCompletedEvent{
		UserID:        request.UserID,
		RequestNumber: requestNumber,
		Amount:        request.Amount,
		NewBalance:    newBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":        request.UserID,
		"requestNumber": requestNumber,
		"amount":        request.Amount,
	}).Info("Withdrawal completed")

	return &CompletionResult{Request: request, NewBalance: newBalance}, nil
}
