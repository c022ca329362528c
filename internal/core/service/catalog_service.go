package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

type CatalogService struct {
	repo   ports.MissionRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.MissionRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListActive(ctx context.Context) ([]*domain.Mission, error) {
	missions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	if missions == nil {
		missions = []*domain.Mission{}
	}
	return missions, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Mission, error) {
	return s.repo.FindByID(ctx, id)
}

// Publish adds a new mission. Published missions are never edited.
func (s *CatalogService) Publish(ctx context.Context, m *domain.Mission) (*domain.Mission, error) {
	m.ID = strings.TrimSpace(m.ID)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.IsActive = true
	m.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().Str("mission_id", m.ID).Str("type", string(m.Type)).Msg("mission published")
	return m, nil
}

func (s *CatalogService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("mission_id", id).Msg("mission deactivated")
	return nil
}

// Seed inserts catalog entries that are missing. Existing missions, active or
// not, are left exactly as they are.
func (s *CatalogService) Seed(ctx context.Context, missions []*domain.Mission) (int, error) {
	inserted := 0
	for _, m := range missions {
		if err := m.Validate(); err != nil {
			return inserted, fmt.Errorf("seed mission %q: %w", m.ID, err)
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		ok, err := s.repo.InsertMissing(ctx, m)
		if err != nil {
			return inserted, fmt.Errorf("seed mission %q: %w", m.ID, err)
		}
		if ok {
			inserted++
		}
	}
	s.logger.Info().Int("inserted", inserted).Int("total", len(missions)).Msg("mission catalog seeded")
	return inserted, nil
}
