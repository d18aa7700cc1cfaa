package service

import (
	"context"
	"fmt"
	"sort"

	"poketally/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

func (s *statsService) GetProfile(ctx context.Context, msg InboundMessage) (*ProfileStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := getOrCreateUser(ctx, uow, msg.AuthorID, msg.AuthorUsername, msg.AuthorDiscriminator)
	if err != nil {
		return nil, err
	}

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ProfileStats{
		User:        user,
		MessageRank: rankOf(users, user.DiscordID, func(u *models.User) int64 { return u.Messages }),
		CatchRank:   rankOf(users, user.DiscordID, func(u *models.User) int64 { return u.Catches }),
		TotalUsers:  len(users),
	}, nil
}

func (s *statsService) GetCatchSummary(ctx context.Context, msg InboundMessage) (*CatchSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := getOrCreateUser(ctx, uow, msg.AuthorID, msg.AuthorUsername, msg.AuthorDiscriminator)
	if err != nil {
		return nil, err
	}

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	var serverTotal int64
	for _, u := range users {
		serverTotal += u.Catches
	}

	return &CatchSummary{
		User:        user,
		Rank:        rankOf(users, user.DiscordID, func(u *models.User) int64 { return u.Catches }),
		TotalUsers:  len(users),
		ServerTotal: serverTotal,
	}, nil
}

func (s *statsService) GetLeaderboard(ctx context.Context, kind LeaderboardKind, limit int) (*Leaderboard, error) {
	if limit <= 0 {
		limit = 10
	}

	statOf := func(u *models.User) int64 { return u.Messages }
	if kind == LeaderboardCatches {
		statOf = func(u *models.User) int64 { return u.Catches }
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		return statOf(users[i]) > statOf(users[j])
	})

	board := &Leaderboard{Kind: kind}
	for _, u := range users {
		count := statOf(u)
		board.Total += count
		if count > 0 {
			board.ActiveUsers++
		}
		if len(board.Entries) < limit && count > 0 {
			board.Entries = append(board.Entries, LeaderboardEntry{
				UserID:  u.DiscordID,
				Count:   count,
				Balance: u.Balance,
			})
		}
	}

	return board, nil
}

// rankOf returns the 1-based position of the user when everyone is sorted
// descending by the given stat. Ties share the better rank.
func rankOf(users []*models.User, discordID int64, statOf func(*models.User) int64) int {
	var own int64
	for _, u := range users {
		if u.DiscordID == discordID {
			own = statOf(u)
			break
		}
	}

	rank := 1
	for _, u := range users {
		if u.DiscordID != discordID && statOf(u) > own {
			rank++
		}
	}
	return rank
}
