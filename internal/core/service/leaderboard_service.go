package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type leaderboardService struct {
	users ports.UserRepository
	cache ports.LeaderboardCache
	log   zerolog.Logger
}

// NewLeaderboardService returns a LeaderboardService. cache may be nil.
func NewLeaderboardService(users ports.UserRepository, cache ports.LeaderboardCache, log zerolog.Logger) ports.LeaderboardService {
	return &leaderboardService{users: users, cache: cache, log: log}
}

// Top ranks users by points, then earliest join. Cache failures fall through
// to the repository.
func (s *leaderboardService) Top(ctx context.Context, n int) ([]ports.RankedUser, error) {
	switch {
	case n <= 0:
		n = defaultLeaderboardSize
	case n > maxLeaderboardSize:
		n = maxLeaderboardSize
	}

	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx, n)
		if err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache read failed")
		} else if ok {
			return rows, nil
		}
	}

	users, err := s.users.ListTop(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	rows := make([]ports.RankedUser, len(users))
	for i, u := range users {
		completed := u.CompletedMissions
		if completed == nil {
			completed = []string{}
		}
		rows[i] = ports.RankedUser{
			Rank:              i + 1,
			Name:              u.Name,
			Points:            u.Points,
			PlanetHealth:      u.PlanetHealth,
			CompletedMissions: completed,
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, n, rows); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return rows, nil
}

// Invalidate drops cached rankings after a ledger write.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}
