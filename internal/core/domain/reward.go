package domain

import (
	"fmt"
	"math"
)

// RejectionReason names why a completion attempt was refused.
type RejectionReason string

const (
	ReasonUnknownMission   RejectionReason = "unknown_mission"
	ReasonInactiveMission  RejectionReason = "inactive_mission"
	ReasonAlreadyCompleted RejectionReason = "already_completed"
)

// Rejection is the typed business refusal returned by EvaluateCompletion.
type Rejection struct {
	Reason    RejectionReason
	MissionID string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("mission %q rejected: %s", r.MissionID, r.Reason)
}

// Unwrap lets callers match rejections with errors.Is on the catalog sentinels.
func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case ReasonUnknownMission:
		return ErrMissionNotFound
	case ReasonInactiveMission:
		return ErrMissionInactive
	case ReasonAlreadyCompleted:
		return ErrAlreadyCompleted
	}
	return nil
}

// Reward is the outcome of an accepted completion. HealthApplied is the
// change that actually lands: HealthDelta unless the ceiling cut it short.
type Reward struct {
	MissionID     string
	Points        int64
	HealthDelta   float64
	HealthApplied float64
	NewHealth     float64
	Impact        Impact
}

// EvaluateCompletion decides what completing mission means for user.
// It reads both arguments and writes neither. A nil mission is an unknown id.
func EvaluateCompletion(user *User, mission *Mission, missionID string) (Reward, error) {
	if mission == nil {
		return Reward{}, &Rejection{Reason: ReasonUnknownMission, MissionID: missionID}
	}
	if !mission.IsActive {
		return Reward{}, &Rejection{Reason: ReasonInactiveMission, MissionID: mission.ID}
	}
	if user.HasCompleted(mission.ID) {
		return Reward{}, &Rejection{Reason: ReasonAlreadyCompleted, MissionID: mission.ID}
	}

	// Ceiling only; the floor is the decay rule's business.
	newHealth := user.PlanetHealth + mission.HealthBonus
	applied := mission.HealthBonus
	if newHealth > MaxPlanetHealth {
		newHealth = MaxPlanetHealth
		applied = math.Max(0, MaxPlanetHealth-user.PlanetHealth)
	}

	return Reward{
		MissionID:     mission.ID,
		Points:        mission.Points,
		HealthDelta:   mission.HealthBonus,
		HealthApplied: applied,
		NewHealth:     newHealth,
		Impact: Impact{
			CO2:    mission.CO2Saved,
			Water:  mission.WaterSaved,
			Energy: mission.EnergySaved,
		},
	}, nil
}
