package service

import (
	"context"
	"fmt"

	"poketally/events"
	"poketally/models"
)

// getOrCreateUser fetches the user inside the current unit of work, creating
// the row on first contact and publishing a UserCreatedEvent.
func getOrCreateUser(ctx context.Context, uow UnitOfWork, discordID int64, username, discriminator string) (*models.User, error) {
	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, discordID, username, discriminator)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   user.DiscordID,
		Username: user.Username,
	})

	return user, nil
}
