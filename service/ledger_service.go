package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"poketally/events"
	"poketally/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// RecordChatMessage runs the full counting pipeline for one chat message.
// The settings read, spam verdict, log append, counter bump and reward
// credit all happen in a single transaction, so a concurrent burst from the
// same author is serialized by the row locks on users.
func (s *ledgerService) RecordChatMessage(ctx context.Context, msg InboundMessage) (*MessageResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	// Re-check under the transaction; an admin may have flipped the event
	// or unenrolled the channel between classification and here.
	if !settings.MessageEventActive || !settings.IsCountingChannel(msg.ChannelID) {
		return &MessageResult{}, uow.Commit()
	}

	user, err := getOrCreateUser(ctx, uow, msg.AuthorID, msg.AuthorUsername, msg.AuthorDiscriminator)
	if err != nil {
		return nil, err
	}

	window := time.Duration(settings.SpamTimeWindow) * time.Second
	recentCount, err := uow.MessageRepository().CountRecentByAuthor(ctx, msg.AuthorID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent messages: %w", err)
	}

	verdict := EvaluateSpam(settings, msg.Content, recentCount)

	entry := &models.Message{
		Content:   msg.Content,
		AuthorID:  msg.AuthorID,
		ChannelID: msg.ChannelID,
		IsBot:     msg.IsBot,
		IsCounted: !verdict.Blocked,
		IsSpam:    verdict.Blocked,
	}
	if err := uow.MessageRepository().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to log message: %w", err)
	}

	result := &MessageResult{User: user, SpamReason: verdict.Reason}

	if verdict.Blocked {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return result, nil
	}

	newCount, err := uow.UserRepository().IncrementMessages(ctx, msg.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment messages: %w", err)
	}
	result.Counted = true
	user.Messages = newCount

	// Reward lands exactly on every multiple of the threshold, so the
	// blocked messages above never shift the schedule.
	if settings.MessagesPerReward > 0 && newCount%settings.MessagesPerReward == 0 {
		oldBalance := user.Balance
		if err := uow.UserRepository().AddBalance(ctx, msg.AuthorID, settings.PokecoinRate); err != nil {
			return nil, fmt.Errorf("failed to credit reward: %w", err)
		}
		user.Balance = oldBalance + settings.PokecoinRate
		result.Rewarded = true
		result.RewardAmount = settings.PokecoinRate

		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:       msg.AuthorID,
			OldBalance:   oldBalance,
			NewBalance:   user.Balance,
			ChangeAmount: settings.PokecoinRate,
			Reason:       "message reward",
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if result.Rewarded {
		log.WithFields(log.Fields{
			"userID": msg.AuthorID,
			"amount": result.RewardAmount,
			"count":  newCount,
		}).Info("Message reward credited")
	}

	return result, nil
}

func (s *ledgerService) Credit(ctx context.Context, discordID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, discordID)
	}

	if err := uow.UserRepository().AddBalance(ctx, discordID, amount); err != nil {
		return fmt.Errorf("failed to add balance: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       discordID,
		OldBalance:   user.Balance,
		NewBalance:   user.Balance + amount,
		ChangeAmount: amount,
		Reason:       "admin credit",
	})

	return uow.Commit()
}

func (s *ledgerService) Debit(ctx context.Context, discordID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, discordID)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, amount); err != nil {
		return err
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       discordID,
		OldBalance:   user.Balance,
		NewBalance:   user.Balance - amount,
		ChangeAmount: -amount,
		Reason:       "admin debit",
	})

	return uow.Commit()
}

func (s *ledgerService) SetBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: balance cannot be negative", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("%w: user %d", ErrNotFound, discordID)
	}

	oldBalance := user.Balance
	if err := uow.UserRepository().SetBalance(ctx, discordID, amount); err != nil {
		return 0, fmt.Errorf("failed to set balance: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       discordID,
		OldBalance:   oldBalance,
		NewBalance:   amount,
		ChangeAmount: amount - oldBalance,
		Reason:       "admin set",
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return oldBalance, nil
}

func (s *ledgerService) ResetUser(ctx context.Context, discordID int64, category ResetCategory) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %d", ErrNotFound, discordID)
	}

	if err := uow.UserRepository().ResetStats(ctx, discordID, category); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return uow.Commit()
}

func (s *ledgerService) ResetAll(ctx context.Context, category ResetCategory) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ResetAllStats(ctx, category); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	log.WithField("category", category).Warn("Server-wide stat reset executed")

	return uow.Commit()
}
