package ports

import (
	"context"
	"time"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// AnalyticsRepository stores append-only analytics events.
type AnalyticsRepository interface {
	// Insert appends e. Re-inserting an existing event id is a no-op.
	Insert(ctx context.Context, e *domain.AnalyticsEvent) error
	// Recent returns at most limit events, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]domain.AnalyticsEvent, error)
	// Totals sums events with timestamp >= since; a zero since means all time.
	Totals(ctx context.Context, userID string, since time.Time) (domain.AnalyticsTotals, error)
	// Daily groups events with timestamp >= since by UTC day, oldest first.
	Daily(ctx context.Context, userID string, since time.Time) ([]domain.DailyImpact, error)
}
