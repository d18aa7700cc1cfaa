package service

import (
	"context"
	"testing"

	"poketally/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func catchFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockSettingsRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockSettingsRepo := new(MockSettingsRepository)

	mockUoW.SetRepositories(mockUserRepo, mockSettingsRepo, nil, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockUserRepo, mockSettingsRepo
}

func catchAnnouncement(content string) InboundMessage {
	return InboundMessage{
		AuthorID: testCatchBotID,
		IsBot:    true,
		Content:  content,
		Mentions: []Mention{{ID: 100, Username: "ash"}},
	}
}

func TestProcessCatch_RecordsShiny(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo := catchFixture()
	service := NewCatchService(mockFactory)

	user := &models.User{DiscordID: 100, Username: "ash"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(activeSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockUserRepo.On("IncrementCatches", ctx, int64(100), models.CatchTierShiny).Return(nil)

	result, err := service.ProcessCatch(ctx, catchAnnouncement("Congratulations <@100>! You caught a ✨ Eevee!"))

	assert.NoError(t, err)
	assert.True(t, result.Recognized)
	assert.True(t, result.Counted)
	assert.Equal(t, models.CatchTierShiny, result.Tier)
	assert.Equal(t, int64(100), result.UserID)

	mockUserRepo.AssertExpectations(t)
}

func TestProcessCatch_UnrecognizedMessage(t *testing.T) {
	mockFactory, _, mockUserRepo, _ := catchFixture()
	service := NewCatchService(mockFactory)

	result, err := service.ProcessCatch(context.Background(), catchAnnouncement("A wild Pidgey appeared!"))

	assert.NoError(t, err)
	assert.False(t, result.Recognized)
	mockUserRepo.AssertNotCalled(t, "IncrementCatches", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessCatch_NoMention(t *testing.T) {
	mockFactory, _, mockUserRepo, _ := catchFixture()
	service := NewCatchService(mockFactory)

	msg := catchAnnouncement("Congratulations! You caught a Pidgey!")
	msg.Mentions = nil

	result, err := service.ProcessCatch(context.Background(), msg)

	assert.NoError(t, err)
	assert.True(t, result.Recognized)
	assert.False(t, result.Counted)
	mockUserRepo.AssertNotCalled(t, "IncrementCatches", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessCatch_EventInactive(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo := catchFixture()
	service := NewCatchService(mockFactory)

	settings := activeSettings()
	settings.CatchEventActive = false

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockSettingsRepo.On("Get", ctx).Return(settings, nil)

	result, err := service.ProcessCatch(ctx, catchAnnouncement("Congratulations <@100>! You caught a Pidgey!"))

	assert.NoError(t, err)
	assert.True(t, result.Recognized)
	assert.False(t, result.Counted)
	mockUserRepo.AssertNotCalled(t, "IncrementCatches", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessCatch_CreatesUnknownCatcher(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo := catchFixture()
	service := NewCatchService(mockFactory)

	newUser := &models.User{DiscordID: 100, Username: "ash"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(activeSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(100), "ash", "").Return(newUser, nil)
	mockUserRepo.On("IncrementCatches", ctx, int64(100), models.CatchTierNormal).Return(nil)

	result, err := service.ProcessCatch(ctx, catchAnnouncement("Congratulations <@100>! You caught a Pidgey!"))

	assert.NoError(t, err)
	assert.True(t, result.Counted)
	mockUserRepo.AssertExpectations(t)
}
