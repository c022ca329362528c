package ports

import (
	"context"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// CatalogService owns the mission lifecycle.
type CatalogService interface {
	ListActive(ctx context.Context) ([]*domain.Mission, error)
	Get(ctx context.Context, id string) (*domain.Mission, error)
	Publish(ctx context.Context, m *domain.Mission) (*domain.Mission, error)
	Deactivate(ctx context.Context, id string) error
	// Seed publishes every mission whose id is not yet in the catalog and
	// returns how many were inserted.
	Seed(ctx context.Context, missions []*domain.Mission) (int, error)
}
