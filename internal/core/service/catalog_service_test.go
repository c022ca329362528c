package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

func TestCatalogService_Publish(t *testing.T) {
	repo := newStubMissionRepo()
	svc := NewCatalogService(repo, zerolog.Nop())

	m, err := svc.Publish(context.Background(), &domain.Mission{
		ID: " m9 ", Title: "Bike to work", Type: domain.MissionOther, Points: 40, HealthBonus: 2,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if m.ID != "m9" || !m.IsActive || m.CreatedAt.IsZero() {
		t.Fatalf("unexpected published mission: %+v", m)
	}

	_, err = svc.Publish(context.Background(), &domain.Mission{ID: "m9", Title: "Again", Type: domain.MissionOther, Points: 1})
	if !errors.Is(err, domain.ErrMissionExists) {
		t.Fatalf("expected ErrMissionExists, got %v", err)
	}
}

func TestCatalogService_Publish_Invalid(t *testing.T) {
	repo := newStubMissionRepo()
	svc := NewCatalogService(repo, zerolog.Nop())

	_, err := svc.Publish(context.Background(), &domain.Mission{ID: "bad", Title: "x", Type: "dance", Points: 10})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.missions) != 0 {
		t.Fatalf("invalid mission stored")
	}
}

func TestCatalogService_DeactivateHidesFromList(t *testing.T) {
	repo := newStubMissionRepo(activeMission("1", 100, 5), activeMission("2", 75, 3))
	svc := NewCatalogService(repo, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Deactivate(ctx, "1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	list, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 1 || list[0].ID != "2" {
		t.Fatalf("unexpected active list: %+v", list)
	}

	m, err := svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("deactivated mission must stay readable: %v", err)
	}
	if m.IsActive || m.Points != 100 {
		t.Fatalf("unexpected mission after deactivation: %+v", m)
	}

	if err := svc.Deactivate(ctx, "missing"); !errors.Is(err, domain.ErrMissionNotFound) {
		t.Fatalf("expected ErrMissionNotFound, got %v", err)
	}
}

func TestCatalogService_ListActive_Empty(t *testing.T) {
	svc := NewCatalogService(newStubMissionRepo(), zerolog.Nop())

	list, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty, non-nil list, got %v", list)
	}
}

func TestCatalogService_Seed_InsertsOnlyMissing(t *testing.T) {
	existing := activeMission("1", 100, 5)
	existing.IsActive = false
	repo := newStubMissionRepo(existing)
	svc := NewCatalogService(repo, zerolog.Nop())

	changed := activeMission("1", 999, 50)
	inserted, err := svc.Seed(context.Background(), []*domain.Mission{changed, activeMission("2", 75, 3)})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 inserted, got %d", inserted)
	}
	got := repo.missions["1"]
	if got.Points != 100 || got.IsActive {
		t.Fatalf("seed must not modify existing mission, got %+v", got)
	}
	if _, ok := repo.missions["2"]; !ok {
		t.Fatalf("missing mission not seeded")
	}
}

func TestCatalogService_Seed_RejectsInvalid(t *testing.T) {
	svc := NewCatalogService(newStubMissionRepo(), zerolog.Nop())

	_, err := svc.Seed(context.Background(), []*domain.Mission{{ID: "x", Title: "x", Type: domain.MissionQuiz}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
