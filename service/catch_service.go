package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"poketally/events"
)

type catchService struct {
	uowFactory UnitOfWorkFactory
}

// NewCatchService creates a new catch service
func NewCatchService(uowFactory UnitOfWorkFactory) CatchService {
	return &catchService{
		uowFactory: uowFactory,
	}
}

// ProcessCatch grades a catch-source message and records it for the first
// mentioned user. The catcher is identified by the mention, not the author:
// the announcement comes from the automated source, about the player.
func (s *catchService) ProcessCatch(ctx context.Context, msg InboundMessage) (*CatchResult, error) {
	tier, recognized := GradeCatch(msg.Content, msg.EmbedText)
	if !recognized {
		return &CatchResult{}, nil
	}
	if len(msg.Mentions) == 0 {
		return &CatchResult{Recognized: true}, nil
	}

	catcher := msg.Mentions[0]
	result := &CatchResult{Recognized: true, Tier: tier, UserID: catcher.ID}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.CatchEventActive {
		return result, uow.Commit()
	}

	if _, err := getOrCreateUser(ctx, uow, catcher.ID, catcher.Username, catcher.Discriminator); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().IncrementCatches(ctx, catcher.ID, tier); err != nil {
		return nil, fmt.Errorf("failed to increment catches: %w", err)
	}
	result.Counted = true

	uow.EventBus().Publish(events.CatchRecordedEvent{
		UserID: catcher.ID,
		Tier:   string(tier),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": catcher.ID,
		"tier":   tier,
	}).Info("Catch recorded")

	return result, nil
}
