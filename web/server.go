package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"poketally/models"
	"poketally/service"
)

// Server is the read-only dashboard API. It projects repository state as
// JSON and performs no mutation.
type Server struct {
	users       service.UserRepository
	settings    service.SettingsRepository
	messages    service.MessageRepository
	withdrawals service.WithdrawalRepository
	httpServer  *http.Server
}

// NewServer creates a dashboard server listening on addr.
func NewServer(addr string, users service.UserRepository, settings service.SettingsRepository, messages service.MessageRepository, withdrawals service.WithdrawalRepository) *Server {
	s := &Server{
		users:       users,
		settings:    settings,
		messages:    messages,
		withdrawals: withdrawals,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	return s
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Recoverer, requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.getUsers)
		r.Get("/settings", s.getSettings)
		r.Get("/messages", s.getMessages)
		r.Get("/withdrawals", s.getWithdrawals)
	})

	return r
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("Dashboard listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("Dashboard request")
	})
}

type userResponse struct {
	DiscordID        int64     `json:"discord_id"`
	Username         string    `json:"username"`
	Messages         int64     `json:"messages"`
	Catches          int64     `json:"catches"`
	ShinyCatches     int64     `json:"shiny_catches"`
	RareShinyCatches int64     `json:"rare_shiny_catches"`
	Balance          int64     `json:"balance"`
	CreatedAt        time.Time `json:"created_at"`
}

func (s *Server) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			DiscordID:        u.DiscordID,
			Username:         u.Username,
			Messages:         u.Messages,
			Catches:          u.Catches,
			ShinyCatches:     u.ShinyCatches,
			RareShinyCatches: u.RareShinyCatches,
			Balance:          u.Balance,
			CreatedAt:        u.CreatedAt,
		})
	}
	s.respond(w, resp)
}

type settingsResponse struct {
	MessageEventActive  bool    `json:"message_event_active"`
	CatchEventActive    bool    `json:"catch_event_active"`
	PokecoinRate        int64   `json:"pokecoin_rate"`
	MessagesPerReward   int64   `json:"messages_per_reward"`
	CountingChannels    []int64 `json:"counting_channels"`
	ProofsChannelID     int64   `json:"proofs_channel_id"`
	WithdrawalChannelID int64   `json:"withdrawal_channel_id"`
	AntiSpamEnabled     bool    `json:"anti_spam_enabled"`
	SpamTimeWindow      int64   `json:"spam_time_window"`
	MaxMessagesInWindow int64   `json:"max_messages_in_window"`
	MinMessageLength    int64   `json:"min_message_length"`
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	channels := settings.CountingChannels
	if channels == nil {
		channels = []int64{}
	}
	s.respond(w, settingsResponse{
		MessageEventActive:  settings.MessageEventActive,
		CatchEventActive:    settings.CatchEventActive,
		PokecoinRate:        settings.PokecoinRate,
		MessagesPerReward:   settings.MessagesPerReward,
		CountingChannels:    channels,
		ProofsChannelID:     settings.ProofsChannelID,
		WithdrawalChannelID: settings.WithdrawalChannelID,
		AntiSpamEnabled:     settings.AntiSpamEnabled,
		SpamTimeWindow:      settings.SpamTimeWindow,
		MaxMessagesInWindow: settings.MaxMessagesInWindow,
		MinMessageLength:    settings.MinMessageLength,
	})
}

type messageResponse struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	ChannelID int64     `json:"channel_id"`
	Content   string    `json:"content"`
	IsCounted bool      `json:"is_counted"`
	IsSpam    bool      `json:"is_spam"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultMessageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	var messages []*models.Message
	var err error
	if raw := r.URL.Query().Get("channel_id"); raw != "" {
		channelID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			http.Error(w, "channel_id must be numeric", http.StatusBadRequest)
			return
		}
		messages, err = s.messages.ListByChannel(r.Context(), channelID, limit)
	} else {
		messages, err = s.messages.ListRecent(r.Context(), limit)
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, messageResponse{
			ID:        m.ID,
			AuthorID:  m.AuthorID,
			ChannelID: m.ChannelID,
			Content:   m.Content,
			IsCounted: m.IsCounted,
			IsSpam:    m.IsSpam,
			Timestamp: m.Timestamp,
		})
	}
	s.respond(w, resp)
}

type withdrawalResponse struct {
	RequestNumber int64     `json:"request_number"`
	UserID        int64     `json:"user_id"`
	MarketID      string    `json:"market_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

func (s *Server) getWithdrawals(w http.ResponseWriter, r *http.Request) {
	requests, err := s.withdrawals.List(r.Context(), defaultMessageLimit)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := make([]withdrawalResponse, 0, len(requests))
	for _, req := range requests {
		resp = append(resp, withdrawalResponse{
			RequestNumber: req.RequestNumber,
			UserID:        req.UserID,
			MarketID:      req.MarketID,
			Amount:        req.Amount,
			Status:        string(req.Status),
			Timestamp:     req.Timestamp,
		})
	}
	s.respond(w, resp)
}

func (s *Server) respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Failed to encode dashboard response")
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	log.WithError(err).Error("Dashboard query failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
