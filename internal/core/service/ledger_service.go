package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/api/metrics"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const defaultMaxAttempts = 5

type ledgerService struct {
	users       ports.UserRepository
	missions    ports.MissionRepository
	analytics   ports.AnalyticsService
	leaderboard ports.LeaderboardService
	serializer  ports.Serializer
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

// LedgerOptions tunes the ledger commit loop.
type LedgerOptions struct {
	// MaxAttempts bounds reload-and-retry cycles on revision conflicts.
	MaxAttempts int
}

// NewLedgerService returns a LedgerService. leaderboard may be nil.
func NewLedgerService(
	users ports.UserRepository,
	missions ports.MissionRepository,
	analytics ports.AnalyticsService,
	leaderboard ports.LeaderboardService,
	serializer ports.Serializer,
	opts LedgerOptions,
	log zerolog.Logger,
) ports.LedgerService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &ledgerService{
		users:       users,
		missions:    missions,
		analytics:   analytics,
		leaderboard: leaderboard,
		serializer:  serializer,
		maxAttempts: opts.MaxAttempts,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ApplyReward credits missionID to userID exactly once.
//
// The whole read-evaluate-commit cycle runs on the user's serializer shard;
// the revision check in ApplyLedgerChange covers writers in other processes.
func (s *ledgerService) ApplyReward(ctx context.Context, userID, missionID string) (*ports.RewardResult, error) {
	start := time.Now()
	var result *ports.RewardResult

	err := s.serializer.Do(ctx, userID, func(ctx context.Context) error {
		var err error
		result, err = s.applyReward(ctx, userID, missionID)
		return err
	})

	metrics.RewardApplyDuration.WithLabelValues(outcomeLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			metrics.RewardsRejectedTotal.WithLabelValues(string(rej.Reason)).Inc()
			s.log.Info().
				Str("user_id", userID).
				Str("mission_id", missionID).
				Str("reason", string(rej.Reason)).
				Msg("mission completion rejected")
		}
		return nil, err
	}
	return result, nil
}

func (s *ledgerService) applyReward(ctx context.Context, userID, missionID string) (*ports.RewardResult, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("apply reward: %w", err)
		}

		// A previous call may have committed without recording its event.
		s.flushPending(ctx, user)

		mission, err := s.missions.FindByID(ctx, missionID)
		if err != nil && !errors.Is(err, domain.ErrMissionNotFound) {
			return nil, fmt.Errorf("apply reward: %w", err)
		}

		reward, err := domain.EvaluateCompletion(user, mission, missionID)
		if err != nil {
			return nil, err
		}

		event := &domain.AnalyticsEvent{
			ID:           domain.EventID(user.ID, mission.ID),
			UserID:       user.ID,
			MissionID:    mission.ID,
			Timestamp:    s.now(),
			PointsEarned: reward.Points,
			HealthChange: reward.HealthApplied,
			Impact:       reward.Impact,
		}

		updated, err := s.users.ApplyLedgerChange(ctx, user.ID, user.Revision, domain.LedgerChange{
			PointsDelta: reward.Points,
			NewHealth:   reward.NewHealth,
			AddMission:  mission.ID,
			Pending:     event,
		})
		if errors.Is(err, domain.ErrRevisionConflict) {
			metrics.LedgerConflictsTotal.Inc()
			s.log.Debug().
				Str("user_id", userID).
				Int("attempt", attempt).
				Msg("ledger revision moved, reloading")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("apply reward: commit: %w", err)
		}

		s.flushPending(ctx, updated)
		if s.leaderboard != nil {
			s.leaderboard.Invalidate(ctx)
		}

		metrics.MissionsCompletedTotal.WithLabelValues(string(mission.Type)).Inc()
		metrics.PointsAwardedTotal.Add(float64(reward.Points))

		s.log.Info().
			Str("user_id", user.ID).
			Str("mission_id", mission.ID).
			Int64("points", updated.Points).
			Float64("planet_health", updated.PlanetHealth).
			Msg("reward applied")

		return &ports.RewardResult{
			UserID:        updated.ID,
			MissionID:     mission.ID,
			Points:        updated.Points,
			PlanetHealth:  updated.PlanetHealth,
			PointsAwarded: reward.Points,
			HealthApplied: reward.HealthApplied,
			Impact:        reward.Impact,
		}, nil
	}

	return nil, fmt.Errorf("apply reward: %w after %d attempts", domain.ErrRevisionConflict, s.maxAttempts)
}

// flushPending moves committed events from the user's outbox into analytics.
// Failures are left in the outbox for the next ledger operation.
func (s *ledgerService) flushPending(ctx context.Context, user *domain.User) {
	for i := range user.PendingEvents {
		ev := user.PendingEvents[i]
		if err := s.analytics.RecordEvent(ctx, &ev); err != nil {
			metrics.OutboxFlushFailuresTotal.Inc()
			s.log.Warn().Err(err).
				Str("user_id", user.ID).
				Str("event_id", ev.ID).
				Msg("analytics event not recorded, left in outbox")
			continue
		}
		if err := s.users.ClearPendingEvent(ctx, user.ID, ev.ID); err != nil {
			s.log.Warn().Err(err).
				Str("user_id", user.ID).
				Str("event_id", ev.ID).
				Msg("failed to clear outbox entry")
		}
	}
}

// Profile returns the ledger view of userID.
func (s *ledgerService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	completed := user.CompletedMissions
	if completed == nil {
		completed = []string{}
	}

	return &ports.Profile{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Points:            user.Points,
		PlanetHealth:      user.PlanetHealth,
		PlanetStatus:      domain.PlanetStatusFor(user.PlanetHealth),
		CompletedMissions: completed,
		JoinedAt:          user.JoinedAt,
	}, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "applied"
	}
	return string(domain.KindOf(err))
}
