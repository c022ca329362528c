package handler

import (
	"time"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// --- Requests ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type completeMissionRequest struct {
	MissionID string `json:"missionId" validate:"required"`
}

type publishMissionRequest struct {
	ID          string  `json:"id" validate:"required,max=64"`
	Title       string  `json:"title" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=qr delivery quiz social report other"`
	Description string  `json:"description"`
	Points      int64   `json:"points" validate:"gt=0"`
	HealthBonus float64 `json:"healthBonus" validate:"gte=0"`
	CO2Saved    float64 `json:"co2Saved" validate:"gte=0"`
	WaterSaved  float64 `json:"waterSaved" validate:"gte=0"`
	EnergySaved float64 `json:"energySaved" validate:"gte=0"`
	Difficulty  string  `json:"difficulty"`
	Category    string  `json:"category"`
}

// --- Responses ---

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type rewardsBody struct {
	Points              int64         `json:"points"`
	Health              float64       `json:"health"`
	EnvironmentalImpact domain.Impact `json:"environmentalImpact"`
}

type completeMissionResponse struct {
	Points       int64       `json:"points"`
	PlanetHealth float64     `json:"planetHealth"`
	Rewards      rewardsBody `json:"rewards"`
}

type profileResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Email             string              `json:"email,omitempty"`
	Points            int64               `json:"points"`
	PlanetHealth      float64             `json:"planetHealth"`
	PlanetStatus      domain.PlanetStatus `json:"planetStatus"`
	CompletedMissions []string            `json:"completedMissions"`
	JoinedAt          time.Time           `json:"joinedAt"`
}

type analyticsResponse struct {
	Recent       []domain.AnalyticsEvent `json:"recent"`
	Totals       domain.AnalyticsTotals  `json:"totals"`
	Days         int                     `json:"days,omitempty"`
	WindowTotals *domain.AnalyticsTotals `json:"windowTotals,omitempty"`
	Daily        []domain.DailyImpact    `json:"daily,omitempty"`
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Kind      domain.ErrorKind  `json:"kind"`
	Reason    string            `json:"reason,omitempty"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields,omitempty"`

	// SafeToIgnore marks outcomes where the requested state already holds.
	SafeToIgnore bool `json:"safeToIgnore,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Mapping ---

func toMission(req publishMissionRequest) *domain.Mission {
	return &domain.Mission{
		ID:          req.ID,
		Title:       req.Title,
		Type:        domain.MissionType(req.Type),
		Description: req.Description,
		Points:      req.Points,
		HealthBonus: req.HealthBonus,
		CO2Saved:    req.CO2Saved,
		WaterSaved:  req.WaterSaved,
		EnergySaved: req.EnergySaved,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
	}
}

func toCompleteResponse(r *ports.RewardResult) completeMissionResponse {
	return completeMissionResponse{
		Points:       r.Points,
		PlanetHealth: r.PlanetHealth,
		Rewards: rewardsBody{
			Points:              r.PointsAwarded,
			Health:              r.HealthApplied,
			EnvironmentalImpact: r.Impact,
		},
	}
}

func toProfileResponse(p *ports.Profile) profileResponse {
	return profileResponse{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Points:            p.Points,
		PlanetHealth:      p.PlanetHealth,
		PlanetStatus:      p.PlanetStatus,
		CompletedMissions: p.CompletedMissions,
		JoinedAt:          p.JoinedAt,
	}
}

func toAnalyticsResponse(s *ports.AnalyticsSummary) analyticsResponse {
	return analyticsResponse{
		Recent:       s.Recent,
		Totals:       s.Totals,
		Days:         s.Days,
		WindowTotals: s.WindowTotals,
		Daily:        s.Daily,
	}
}
