package domain

import (
	"time"

	"github.com/google/uuid"
)

// co2PerTree is the kilograms of CO2 counted as one tree planted.
const co2PerTree = 15.0

// eventNamespace seeds deterministic analytics event ids.
var eventNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e3f-9a10-2c8d7e6b5a41")

// Impact holds environmental deltas.
type Impact struct {
	CO2    float64 `json:"co2" bson:"co2"`
	Water  float64 `json:"water" bson:"water"`
	Energy float64 `json:"energy" bson:"energy"`
}

// AnalyticsEvent is an immutable record of one applied reward.
type AnalyticsEvent struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"userId" bson:"user_id"`
	MissionID    string    `json:"missionId" bson:"mission_id"`
	Timestamp    time.Time `json:"timestamp" bson:"timestamp"`
	PointsEarned int64     `json:"pointsEarned" bson:"points_earned"`
	HealthChange float64   `json:"healthChange" bson:"health_change"`
	Impact       Impact    `json:"environmentalImpact" bson:"impact"`
}

// EventID derives the id of the analytics event for a user/mission pair.
// A mission is credited at most once per user, so the pair is unique.
func EventID(userID, missionID string) string {
	return uuid.NewSHA1(eventNamespace, []byte(userID+"/"+missionID)).String()
}

// AnalyticsTotals aggregates a user's history.
type AnalyticsTotals struct {
	PointsEarned    int64   `json:"pointsEarned"`
	CO2Saved        float64 `json:"co2Saved"`
	WaterSaved      float64 `json:"waterSaved"`
	EnergySaved     float64 `json:"energySaved"`
	Events          int64   `json:"events"`
	TreesEquivalent int64   `json:"treesEquivalent"`
}

// Add folds one event into the totals.
func (t *AnalyticsTotals) Add(e AnalyticsEvent) {
	t.PointsEarned += e.PointsEarned
	t.CO2Saved += e.Impact.CO2
	t.WaterSaved += e.Impact.Water
	t.EnergySaved += e.Impact.Energy
	t.Events++
	t.TreesEquivalent = TreesFor(t.CO2Saved)
}

// TreesFor converts saved CO2 into whole trees.
func TreesFor(co2 float64) int64 {
	if co2 <= 0 {
		return 0
	}
	return int64(co2/co2PerTree + 0.5)
}

// DailyImpact is one UTC day of activity.
type DailyImpact struct {
	Date         string  `json:"date"`
	PointsEarned int64   `json:"pointsEarned"`
	CO2Saved     float64 `json:"co2Saved"`
	Events       int64   `json:"events"`
}
