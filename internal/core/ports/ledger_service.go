package ports

import (
	"context"
	"time"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

// RewardResult is the authoritative outcome of a completed mission.
type RewardResult struct {
	UserID        string
	MissionID     string
	Points        int64
	PlanetHealth  float64
	PointsAwarded int64
	HealthApplied float64
	Impact        domain.Impact
}

// Profile is the ledger view of a single user.
type Profile struct {
	ID                string
	Name              string
	Email             string
	Points            int64
	PlanetHealth      float64
	PlanetStatus      domain.PlanetStatus
	CompletedMissions []string
	JoinedAt          time.Time
}

// LedgerService applies rewards to user ledgers.
type LedgerService interface {
	ApplyReward(ctx context.Context, userID, missionID string) (*RewardResult, error)
	Profile(ctx context.Context, userID string) (*Profile, error)
}
