package service

import (
	"context"
	"testing"
	"time"

	"poketally/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func ledgerFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockSettingsRepository, *MockMessageRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockSettingsRepo := new(MockSettingsRepository)
	mockMessageRepo := new(MockMessageRepository)

	mockUoW.SetRepositories(mockUserRepo, mockSettingsRepo, mockMessageRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo
}

func countingSettings() *models.BotSettings {
	return &models.BotSettings{
		MessageEventActive:  true,
		CatchEventActive:    true,
		PokecoinRate:        50,
		MessagesPerReward:   10,
		CountingChannels:    []int64{testChannelID},
		AntiSpamEnabled:     true,
		SpamTimeWindow:      5,
		MaxMessagesInWindow: 3,
		MinMessageLength:    3,
	}
}

func chatMessage(content string) InboundMessage {
	return InboundMessage{
		AuthorID:       100,
		AuthorUsername: "ash",
		Content:        content,
		ChannelID:      testChannelID,
	}
}

func TestRecordChatMessage_CountedWithoutReward(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo := ledgerFixture()
	service := NewLedgerService(mockFactory)

	user := &models.User{DiscordID: 100, Username: "ash", Messages: 6}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(countingSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockMessageRepo.On("CountRecentByAuthor", ctx, int64(100), 5*time.Second).Return(int64(0), nil)
	mockMessageRepo.On("Create", ctx, mock.MatchedBy(func(m *models.Message) bool {
		return m.IsCounted && !m.IsSpam
	})).Return(nil)
	mockUserRepo.On("IncrementMessages", ctx, int64(100)).Return(int64(7), nil)

	result, err := service.RecordChatMessage(ctx, chatMessage("hello world"))

	assert.NoError(t, err)
	assert.True(t, result.Counted)
	assert.False(t, result.Rewarded)
	assert.Equal(t, int64(7), result.User.Messages)

	mockUserRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertExpectations(t)
}

func TestRecordChatMessage_RewardOnExactMultiple(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo := ledgerFixture()
	service := NewLedgerService(mockFactory)

	user := &models.User{DiscordID: 100, Username: "ash", Messages: 9, Balance: 120}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(countingSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockMessageRepo.On("CountRecentByAuthor", ctx, int64(100), 5*time.Second).Return(int64(0), nil)
	mockMessageRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockUserRepo.On("IncrementMessages", ctx, int64(100)).Return(int64(10), nil)
	mockUserRepo.On("AddBalance", ctx, int64(100), int64(50)).Return(nil)

	result, err := service.RecordChatMessage(ctx, chatMessage("hello world"))

	assert.NoError(t, err)
	assert.True(t, result.Counted)
	assert.True(t, result.Rewarded)
	assert.Equal(t, int64(50), result.RewardAmount)
	assert.Equal(t, int64(170), result.User.Balance)

	mockUserRepo.AssertExpectations(t)
}

func TestRecordChatMessage_SpamLoggedNotCounted(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo := ledgerFixture()
	service := NewLedgerService(mockFactory)

	user := &models.User{DiscordID: 100, Username: "ash", Messages: 6}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(countingSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockMessageRepo.On("CountRecentByAuthor", ctx, int64(100), 5*time.Second).Return(int64(3), nil)
	mockMessageRepo.On("Create", ctx, mock.MatchedBy(func(m *models.Message) bool {
		return m.IsSpam && !m.IsCounted
	})).Return(nil)

	result, err := service.RecordChatMessage(ctx, chatMessage("hello world"))

	assert.NoError(t, err)
	assert.False(t, result.Counted)
	assert.Equal(t, "too many messages in short time", result.SpamReason)

	mockUserRepo.AssertNotCalled(t, "IncrementMessages", mock.Anything, mock.Anything)
	mockMessageRepo.AssertExpectations(t)
}

func TestRecordChatMessage_EventOffUnderTransaction(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo := ledgerFixture()
	service := NewLedgerService(mockFactory)

	settings := countingSettings()
	settings.MessageEventActive = false

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(settings, nil)

	result, err := service.RecordChatMessage(ctx, chatMessage("hello world"))

	assert.NoError(t, err)
	assert.False(t, result.Counted)

	mockUserRepo.AssertNotCalled(t, "GetByDiscordID", mock.Anything, mock.Anything)
	mockMessageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordChatMessage_FirstContactCreatesUser(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockSettingsRepo, mockMessageRepo := ledgerFixture()
	service := NewLedgerService(mockFactory)

	newUser := &models.User{DiscordID: 100, Username: "ash"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("Get", ctx).Return(countingSettings(), nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(100), "ash", "").Return(newUser, nil)
	mockMessageRepo.On("CountRecentByAuthor", ctx, int64(100), 5*time.Second).Return(int64(0), nil)
	mockMessageRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockUserRepo.On("IncrementMessages", ctx, int64(100)).Return(int64(1), nil)

	result, err := service.RecordChatMessage(ctx, chatMessage("hello world"))

	assert.NoError(t, err)
	assert.True(t, result.Counted)

	mockUserRepo.AssertExpectations(t)
}

func TestCredit_UnknownUser(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, _ := ledgerFixture()
	service := NewLedgerService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(nil, nil)

	err := service.Credit(ctx, 100, 50)

	assert.ErrorIs(t, err, ErrNotFound)
	mockUserRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestDebit_InsufficientBalancePassthrough(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, _ := ledgerFixture()
	service := NewLedgerService(mockFactory)

	user := &models.User{DiscordID: 100, Balance: 10}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(100), int64(50)).Return(ErrInsufficientBalance)

	err := service.Debit(ctx, 100, 50)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSetBalance_ReturnsOldBalance(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _, _ := ledgerFixture()
	service := NewLedgerService(mockFactory)

	user := &models.User{DiscordID: 100, Balance: 75}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(user, nil)
	mockUserRepo.On("SetBalance", ctx, int64(100), int64(200)).Return(nil)

	oldBalance, err := service.SetBalance(ctx, 100, 200)

	assert.NoError(t, err)
	assert.Equal(t, int64(75), oldBalance)
}

func TestSetBalance_RejectsNegative(t *testing.T) {
	mockFactory, _, _, _, _ := ledgerFixture()
	service := NewLedgerService(mockFactory)

	_, err := service.SetBalance(context.Background(), 100, -5)

	assert.ErrorIs(t, err, ErrValidation)
}
