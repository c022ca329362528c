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

// DecayService periodically lowers planet health. It shares the ledger's
// serializer and revision check, so it never races a reward.
type DecayService struct {
	users       ports.UserRepository
	serializer  ports.Serializer
	notifier    ports.Notifier
	leaderboard ports.LeaderboardService
	policy      domain.DecayPolicy
	interval    time.Duration
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

func NewDecayService(
	users ports.UserRepository,
	serializer ports.Serializer,
	notifier ports.Notifier,
	leaderboard ports.LeaderboardService,
	policy domain.DecayPolicy,
	interval time.Duration,
	log zerolog.Logger,
) *DecayService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DecayService{
		users:       users,
		serializer:  serializer,
		notifier:    notifier,
		leaderboard: leaderboard,
		policy:      policy,
		interval:    interval,
		maxAttempts: defaultMaxAttempts,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run ticks until ctx is cancelled.
func (s *DecayService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Float64("rate", s.policy.Rate).Msg("planet decay started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error().Err(err).Msg("planet decay tick failed")
			}
		}
	}
}

// Tick runs one decay pass over every planet above the floor and returns how
// many were lowered. Per-user failures are logged and skipped.
func (s *DecayService) Tick(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDsAboveHealth(ctx, s.policy.Floor)
	if err != nil {
		return 0, fmt.Errorf("decay: list users: %w", err)
	}

	decayed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return decayed, ctx.Err()
		}
		var changed bool
		err := s.serializer.Do(ctx, id, func(ctx context.Context) error {
			var err error
			changed, err = s.decayUser(ctx, id)
			return err
		})
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("decay skipped user")
			continue
		}
		if changed {
			decayed++
		}
	}

	metrics.DecayTicksTotal.Inc()
	if decayed > 0 && s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
	s.log.Info().Int("candidates", len(ids)).Int("decayed", decayed).Msg("planet decay tick")
	return decayed, nil
}

func (s *DecayService) decayUser(ctx context.Context, id string) (bool, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return false, err
		}

		next, crossed := s.policy.Apply(user.PlanetHealth)
		if next == user.PlanetHealth {
			return false, nil
		}

		_, err = s.users.ApplyLedgerChange(ctx, id, user.Revision, domain.LedgerChange{NewHealth: next})
		if errors.Is(err, domain.ErrRevisionConflict) {
			metrics.LedgerConflictsTotal.Inc()
			continue
		}
		if err != nil {
			return false, err
		}

		if crossed {
			s.alert(ctx, id, next)
		}
		return true, nil
	}
	return false, fmt.Errorf("decay: %w", domain.ErrRevisionConflict)
}

func (s *DecayService) alert(ctx context.Context, userID string, health float64) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PlanetCritical(ctx, ports.PlanetAlert{
		UserID:       userID,
		PlanetHealth: health,
		Threshold:    s.policy.AlertThreshold,
		At:           s.now(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("planet alert not delivered")
		return
	}
	metrics.PlanetAlertsTotal.Inc()
}
