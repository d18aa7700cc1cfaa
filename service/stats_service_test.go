package service

import (
	"context"
	"testing"

	"poketally/models"

	"github.com/stretchr/testify/assert"
)

func statsFixture(users []*models.User) (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetAll", context.Background()).Return(users, nil)

	return mockFactory, mockUoW, mockUserRepo
}

func TestGetProfile_Ranks(t *testing.T) {
	ctx := context.Background()
	users := []*models.User{
		{DiscordID: 100, Username: "ash", Messages: 50, Catches: 5},
		{DiscordID: 200, Username: "misty", Messages: 80, Catches: 2},
		{DiscordID: 300, Username: "brock", Messages: 10, Catches: 9},
	}
	mockFactory, _, mockUserRepo := statsFixture(users)
	mockUserRepo.On("GetByDiscordID", ctx, int64(100)).Return(users[0], nil)

	service := NewStatsService(mockFactory)

	profile, err := service.GetProfile(ctx, InboundMessage{AuthorID: 100, AuthorUsername: "ash"})

	assert.NoError(t, err)
	assert.Equal(t, 2, profile.MessageRank)
	assert.Equal(t, 2, profile.CatchRank)
	assert.Equal(t, 3, profile.TotalUsers)
}

func TestGetCatchSummary_ServerTotal(t *testing.T) {
	ctx := context.Background()
	users := []*models.User{
		{DiscordID: 100, Username: "ash", Catches: 5},
		{DiscordID: 200, Username: "misty", Catches: 2},
		{DiscordID: 300, Username: "brock", Catches: 9},
	}
	mockFactory, _, mockUserRepo := statsFixture(users)
	mockUserRepo.On("GetByDiscordID", ctx, int64(300)).Return(users[2], nil)

	service := NewStatsService(mockFactory)

	summary, err := service.GetCatchSummary(ctx, InboundMessage{AuthorID: 300, AuthorUsername: "brock"})

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Rank)
	assert.Equal(t, int64(16), summary.ServerTotal)
}

func TestGetLeaderboard_OrderingAndTotals(t *testing.T) {
	ctx := context.Background()
	users := []*models.User{
		{DiscordID: 100, Messages: 50, Balance: 10},
		{DiscordID: 200, Messages: 80, Balance: 20},
		{DiscordID: 300, Messages: 10, Balance: 30},
		{DiscordID: 400, Messages: 0},
	}
	mockFactory, _, _ := statsFixture(users)

	service := NewStatsService(mockFactory)

	board, err := service.GetLeaderboard(ctx, LeaderboardMessages, 2)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 2)
	assert.Equal(t, int64(200), board.Entries[0].UserID)
	assert.Equal(t, int64(100), board.Entries[1].UserID)
	assert.Equal(t, int64(140), board.Total)
	assert.Equal(t, 3, board.ActiveUsers)
}

func TestGetLeaderboard_ZeroCountUsersExcluded(t *testing.T) {
	ctx := context.Background()
	users := []*models.User{
		{DiscordID: 100, Catches: 3},
		{DiscordID: 200, Catches: 0},
	}
	mockFactory, _, _ := statsFixture(users)

	service := NewStatsService(mockFactory)

	board, err := service.GetLeaderboard(ctx, LeaderboardCatches, 10)

	assert.NoError(t, err)
	assert.Len(t, board.Entries, 1)
	assert.Equal(t, int64(100), board.Entries[0].UserID)
}
