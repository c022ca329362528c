package ports

import (
	"context"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// AnalyticsQuery selects the history returned by Summary.
type AnalyticsQuery struct {
	UserID string
	// Limit caps the recent events; zero means the default window.
	Limit int
	// Days, when positive, adds windowed totals and a daily breakdown.
	Days int
}

// AnalyticsSummary is the analytics view of a user.
type AnalyticsSummary struct {
	Recent       []domain.AnalyticsEvent
	Totals       domain.AnalyticsTotals
	Days         int
	WindowTotals *domain.AnalyticsTotals
	Daily        []domain.DailyImpact
}

// AnalyticsService records and aggregates reward history.
type AnalyticsService interface {
	RecordEvent(ctx context.Context, e *domain.AnalyticsEvent) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.AnalyticsEvent, error)
	Totals(ctx context.Context, userID string) (domain.AnalyticsTotals, error)
	Summary(ctx context.Context, q AnalyticsQuery) (*AnalyticsSummary, error)
}
