package service

import (
	"context"
	"fmt"

	"poketally/models"
)

type settingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettingsService creates a new settings service
func NewSettingsService(uowFactory UnitOfWorkFactory) SettingsService {
	return &settingsService{
		uowFactory: uowFactory,
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.BotSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settings, nil
}

func (s *settingsService) SetEventActive(ctx context.Context, event string, active bool) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	switch event {
	case "message":
		if err := uow.SettingsRepository().SetMessageEventActive(ctx, active); err != nil {
			return fmt.Errorf("failed to update message event: %w", err)
		}
	case "catch":
		if err := uow.SettingsRepository().SetCatchEventActive(ctx, active); err != nil {
			return fmt.Errorf("failed to update catch event: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown event %q", ErrValidation, event)
	}

	return uow.Commit()
}

func (s *settingsService) SetRewardRate(ctx context.Context, messagesPerReward, pokecoinRate int64) error {
	if messagesPerReward <= 0 {
		return fmt.Errorf("%w: messages per reward must be positive", ErrValidation)
	}
	if pokecoinRate <= 0 {
		return fmt.Errorf("%w: pokecoin rate must be positive", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().SetMessagesPerReward(ctx, messagesPerReward); err != nil {
		return fmt.Errorf("failed to update messages per reward: %w", err)
	}
	if err := uow.SettingsRepository().SetPokecoinRate(ctx, pokecoinRate); err != nil {
		return fmt.Errorf("failed to update pokecoin rate: %w", err)
	}

	return uow.Commit()
}

func (s *settingsService) SetProofsChannel(ctx context.Context, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().SetProofsChannel(ctx, channelID); err != nil {
		return fmt.Errorf("failed to update proofs channel: %w", err)
	}

	return uow.Commit()
}

func (s *settingsService) SetWithdrawalChannel(ctx context.Context, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().SetWithdrawalChannel(ctx, channelID); err != nil {
		return fmt.Errorf("failed to update withdrawal channel: %w", err)
	}

	return uow.Commit()
}

func (s *settingsService) AddCountingChannel(ctx context.Context, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().AddCountingChannel(ctx, channelID); err != nil {
		return fmt.Errorf("failed to add counting channel: %w", err)
	}

	return uow.Commit()
}

func (s *settingsService) RemoveCountingChannel(ctx context.Context, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.SettingsRepository().RemoveCountingChannel(ctx, channelID); err != nil {
		return fmt.Errorf("failed to remove counting channel: %w", err)
	}

	return uow.Commit()
}
