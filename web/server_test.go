package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poketally/models"
	"poketally/service"
)

type serverFixture struct {
	server      *Server
	users       *service.MockUserRepository
	settings    *service.MockSettingsRepository
	messages    *service.MockMessageRepository
	withdrawals *service.MockWithdrawalRepository
}

func newServerFixture() *serverFixture {
	users := new(service.MockUserRepository)
	settings := new(service.MockSettingsRepository)
	messages := new(service.MockMessageRepository)
	withdrawals := new(service.MockWithdrawalRepository)

	return &serverFixture{
		server:      NewServer(":0", users, settings, messages, withdrawals),
		users:       users,
		settings:    settings,
		messages:    messages,
		withdrawals: withdrawals,
	}
}

func (f *serverFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func TestGetUsers(t *testing.T) {
	f := newServerFixture()
	f.users.On("GetAll", mock.Anything).Return([]*models.User{
		{DiscordID: 100, Username: "ash", Messages: 42, Catches: 7, ShinyCatches: 2, Balance: 350, CreatedAt: time.Unix(1700000000, 0).UTC()},
		{DiscordID: 200, Username: "misty", Balance: 10},
	}, nil)

	rec := f.get(t, "/api/users")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp []userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(100), resp[0].DiscordID)
	assert.Equal(t, "ash", resp[0].Username)
	assert.Equal(t, int64(350), resp[0].Balance)
	assert.Equal(t, int64(2), resp[0].ShinyCatches)
}

func TestGetUsers_RepositoryError(t *testing.T) {
	f := newServerFixture()
	f.users.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))

	rec := f.get(t, "/api/users")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetSettings(t *testing.T) {
	f := newServerFixture()
	f.settings.On("Get", mock.Anything).Return(&models.BotSettings{
		MessageEventActive: true,
		PokecoinRate:       25,
		MessagesPerReward:  10,
		CountingChannels:   []int64{555, 556},
		AntiSpamEnabled:    true,
		SpamTimeWindow:     5,
	}, nil)

	rec := f.get(t, "/api/settings")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.MessageEventActive)
	assert.False(t, resp.CatchEventActive)
	assert.Equal(t, int64(25), resp.PokecoinRate)
	assert.Equal(t, []int64{555, 556}, resp.CountingChannels)
}

func TestGetSettings_NilChannelsSerializeAsEmptyArray(t *testing.T) {
	f := newServerFixture()
	f.settings.On("Get", mock.Anything).Return(&models.BotSettings{}, nil)

	rec := f.get(t, "/api/settings")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"counting_channels":[]`)
}

func TestGetMessages_DefaultLimit(t *testing.T) {
	f := newServerFixture()
	f.messages.On("ListRecent", mock.Anything, defaultMessageLimit).Return([]*models.Message{
		{ID: 1, AuthorID: 100, ChannelID: 555, Content: "hello", IsCounted: true},
	}, nil)

	rec := f.get(t, "/api/messages")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "hello", resp[0].Content)
	assert.True(t, resp[0].IsCounted)
	f.messages.AssertExpectations(t)
}

func TestGetMessages_ExplicitLimitCapped(t *testing.T) {
	f := newServerFixture()
	f.messages.On("ListRecent", mock.Anything, maxMessageLimit).Return([]*models.Message{}, nil)

	rec := f.get(t, "/api/messages?limit=5000")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.messages.AssertExpectations(t)
}

func TestGetMessages_InvalidLimit(t *testing.T) {
	f := newServerFixture()

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/messages?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/messages?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/messages?limit=-5").Code)
}

func TestGetMessages_ByChannel(t *testing.T) {
	f := newServerFixture()
	f.messages.On("ListByChannel", mock.Anything, int64(555), 10).Return([]*models.Message{
		{ID: 3, ChannelID: 555, Content: "in channel"},
	}, nil)

	rec := f.get(t, "/api/messages?channel_id=555&limit=10")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(555), resp[0].ChannelID)
}

func TestGetMessages_BadChannelID(t *testing.T) {
	f := newServerFixture()

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/messages?channel_id=general").Code)
}

func TestGetWithdrawals(t *testing.T) {
	f := newServerFixture()
	f.withdrawals.On("List", mock.Anything, defaultMessageLimit).Return([]*models.WithdrawalRequest{
		{RequestNumber: 7, UserID: 100, MarketID: "mkt-1", Amount: 500, Status: models.WithdrawalStatusPending},
		{RequestNumber: 6, UserID: 200, MarketID: "mkt-2", Amount: 250, Status: models.WithdrawalStatusCompleted},
	}, nil)

	rec := f.get(t, "/api/withdrawals")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []withdrawalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(7), resp[0].RequestNumber)
	assert.Equal(t, "pending", resp[0].Status)
	assert.Equal(t, "completed", resp[1].Status)
}

func TestUnknownRouteReturns404(t *testing.T) {
	f := newServerFixture()

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/nope").Code)
}
