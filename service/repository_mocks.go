package service

import (
	"context"
	"time"

	"poketally/events"
	"poketally/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username, discriminator string) (*models.User, error) {
	args := m.Called(ctx, discordID, username, discriminator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) IncrementMessages(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) IncrementCatches(ctx context.Context, discordID int64, tier models.CatchTier) error {
	args := m.Called(ctx, discordID, tier)
	return args.Error(0)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) ResetStats(ctx context.Context, discordID int64, category ResetCategory) error {
	args := m.Called(ctx, discordID, category)
	return args.Error(0)
}

func (m *MockUserRepository) ResetAllStats(ctx context.Context, category ResetCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.BotSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BotSettings), args.Error(1)
}

func (m *MockSettingsRepository) SetMessageEventActive(ctx context.Context, active bool) error {
	args := m.Called(ctx, active)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetCatchEventActive(ctx context.Context, active bool) error {
	args := m.Called(ctx, active)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetPokecoinRate(ctx context.Context, rate int64) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetMessagesPerReward(ctx context.Context, count int64) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockSettingsRepository) AddCountingChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockSettingsRepository) RemoveCountingChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetProofsChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetWithdrawalChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetAntiSpam(ctx context.Context, enabled bool, windowSeconds, maxMessages, minLength int64) error {
	args := m.Called(ctx, enabled, windowSeconds, maxMessages, minLength)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) CountRecentByAuthor(ctx context.Context, authorID int64, window time.Duration) (int64, error) {
	args := m.Called(ctx, authorID, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) ListRecent(ctx context.Context, limit int) ([]*models.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Message, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByNumber(ctx context.Context, requestNumber int64) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) List(ctx context.Context, limit int) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) CompleteIfPending(ctx context.Context, requestNumber int64) (bool, error) {
	args := m.Called(ctx, requestNumber)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; Begin/Commit/Rollback go through testify.
type MockUnitOfWork struct {
	mock.Mock

	userRepo       UserRepository
	settingsRepo   SettingsRepository
	messageRepo    MessageRepository
	withdrawalRepo WithdrawalRepository
	eventBus       EventPublisher
}

// SetRepositories wires the repositories returned by the getters. A nil
// event publisher is replaced with a permissive stub so services can
// publish without every test asserting on events.
func (m *MockUnitOfWork) SetRepositories(user UserRepository, settings SettingsRepository, message MessageRepository, withdrawal WithdrawalRepository, eventBus EventPublisher) {
	m.userRepo = user
	m.settingsRepo = settings
	m.messageRepo = message
	m.withdrawalRepo = withdrawal
	if eventBus == nil {
		eventBus = nopPublisher{}
	}
	m.eventBus = eventBus
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) SettingsRepository() SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) MessageRepository() MessageRepository {
	return m.messageRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
