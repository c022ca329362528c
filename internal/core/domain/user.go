package domain

import (
	"slices"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Starting balances for a freshly registered user.
const (
	InitialPoints       int64   = 100
	InitialPlanetHealth float64 = 75
)

// User is the per-user ledger record. PasswordHash belongs to the identity
// gate and is never serialized.
type User struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	PasswordHash      string           `json:"-"`
	Role              string           `json:"role"`
	Points            int64            `json:"points"`
	PlanetHealth      float64          `json:"planetHealth"`
	CompletedMissions []string         `json:"completedMissions"`
	JoinedAt          time.Time        `json:"joinedAt"`
	Revision          int64            `json:"-"`
	PendingEvents     []AnalyticsEvent `json:"-"`
}

// HasCompleted reports whether missionID has already been credited.
func (u *User) HasCompleted(missionID string) bool {
	return slices.Contains(u.CompletedMissions, missionID)
}

// LedgerChange is a single atomic mutation of a user's ledger.
// AddMission and Pending are optional; an empty AddMission leaves the
// completed set untouched (used by decay).
type LedgerChange struct {
	PointsDelta int64
	NewHealth   float64
	AddMission  string
	Pending     *AnalyticsEvent
}
