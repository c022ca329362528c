package ports

import "context"

// RankedUser is the public leaderboard projection of a user.
type RankedUser struct {
	Rank              int      `json:"rank"`
	Name              string   `json:"name"`
	Points            int64    `json:"points"`
	PlanetHealth      float64  `json:"planetHealth"`
	CompletedMissions []string `json:"completedMissions"`
}

// LeaderboardCache stores computed rankings between ledger writes.
type LeaderboardCache interface {
	Get(ctx context.Context, n int) ([]RankedUser, bool, error)
	Set(ctx context.Context, n int, rows []RankedUser) error
	Invalidate(ctx context.Context) error
}

type LeaderboardService interface {
	Top(ctx context.Context, n int) ([]RankedUser, error)
	Invalidate(ctx context.Context)
}
