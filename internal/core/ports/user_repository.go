package ports

import (
	"context"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// UserRepository persists the per-user ledger.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// ApplyLedgerChange atomically applies change if the stored revision still
	// equals expectedRevision, returning the updated record. A stale revision,
	// or an AddMission that is already in the completed set, yields
	// domain.ErrRevisionConflict.
	ApplyLedgerChange(ctx context.Context, userID string, expectedRevision int64, change domain.LedgerChange) (*domain.User, error)

	// ClearPendingEvent removes a flushed event from the user's outbox.
	ClearPendingEvent(ctx context.Context, userID, eventID string) error

	// ListTop returns up to n users ordered by points desc, joined_at asc, id asc.
	ListTop(ctx context.Context, n int) ([]*domain.User, error)

	// ListIDsAboveHealth returns ids of users whose planet health exceeds floor.
	ListIDsAboveHealth(ctx context.Context, floor float64) ([]string, error)
}
