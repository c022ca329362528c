package ports

import (
	"context"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// MissionRepository persists the mission catalog.
type MissionRepository interface {
	// Create publishes a new mission; an existing id yields domain.ErrMissionExists.
	Create(ctx context.Context, m *domain.Mission) error
	// InsertMissing publishes m only when its id is unknown. It reports whether
	// a document was inserted.
	InsertMissing(ctx context.Context, m *domain.Mission) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Mission, error)
	ListActive(ctx context.Context) ([]*domain.Mission, error)
	Deactivate(ctx context.Context, id string) error
}
