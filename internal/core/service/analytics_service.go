package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const (
	defaultRecentLimit = 30
	maxRecentLimit     = 100
	maxWindowDays      = 365
)

type analyticsService struct {
	repo ports.AnalyticsRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAnalyticsService returns an AnalyticsService backed by repo.
func NewAnalyticsService(repo ports.AnalyticsRepository, log zerolog.Logger) ports.AnalyticsService {
	return &analyticsService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// RecordEvent appends e. It is only reached through the ledger outbox, after
// the reward it describes has been committed.
func (s *analyticsService) RecordEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = domain.EventID(e.UserID, e.MissionID)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	s.log.Debug().Str("user_id", e.UserID).Str("event_id", e.ID).Msg("analytics event recorded")
	return nil
}

func (s *analyticsService) Recent(ctx context.Context, userID string, limit int) ([]domain.AnalyticsEvent, error) {
	events, err := s.repo.Recent(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	if events == nil {
		events = []domain.AnalyticsEvent{}
	}
	return events, nil
}

// Totals never fails for a user without history: it returns zero values.
func (s *analyticsService) Totals(ctx context.Context, userID string) (domain.AnalyticsTotals, error) {
	totals, err := s.repo.Totals(ctx, userID, time.Time{})
	if err != nil {
		return domain.AnalyticsTotals{}, fmt.Errorf("totals: %w", err)
	}
	totals.TreesEquivalent = domain.TreesFor(totals.CO2Saved)
	return totals, nil
}

func (s *analyticsService) Summary(ctx context.Context, q ports.AnalyticsQuery) (*ports.AnalyticsSummary, error) {
	if q.Days < 0 || q.Days > maxWindowDays {
		return nil, domain.NewValidationError(map[string]string{
			"days": fmt.Sprintf("must be between 0 and %d", maxWindowDays),
		})
	}

	recent, err := s.Recent(ctx, q.UserID, q.Limit)
	if err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	summary := &ports.AnalyticsSummary{Recent: recent, Totals: totals}
	if q.Days == 0 {
		return summary, nil
	}

	since := startOfDay(s.now()).AddDate(0, 0, -q.Days+1)
	window, err := s.repo.Totals(ctx, q.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("window totals: %w", err)
	}
	window.TreesEquivalent = domain.TreesFor(window.CO2Saved)

	daily, err := s.repo.Daily(ctx, q.UserID, since)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}

	summary.Days = q.Days
	summary.WindowTotals = &window
	summary.Daily = fillDays(daily, since, q.Days)
	return summary, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	}
	return limit
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// fillDays returns one row per day from since, zero-filling quiet days.
func fillDays(rows []domain.DailyImpact, since time.Time, days int) []domain.DailyImpact {
	byDate := make(map[string]domain.DailyImpact, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := make([]domain.DailyImpact, 0, days)
	for i := 0; i < days; i++ {
		d := since.AddDate(0, 0, i).Format(time.DateOnly)
		row, ok := byDate[d]
		if !ok {
			row = domain.DailyImpact{Date: d}
		}
		out = append(out, row)
	}
	return out
}
