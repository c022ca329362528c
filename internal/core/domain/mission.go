package domain

import "time"

// MissionType enumerates the kinds of eco-missions.
type MissionType string

const (
	MissionQR       MissionType = "qr"
	MissionDelivery MissionType = "delivery"
	MissionQuiz     MissionType = "quiz"
	MissionSocial   MissionType = "social"
	MissionReport   MissionType = "report"
	MissionOther    MissionType = "other"
)

// Valid reports whether t is one of the known mission types.
func (t MissionType) Valid() bool {
	switch t {
	case MissionQR, MissionDelivery, MissionQuiz, MissionSocial, MissionReport, MissionOther:
		return true
	}
	return false
}

// Mission is a catalog entry. Its reward fields never change after publication;
// only IsActive may flip to false.
type Mission struct {
	ID          string      `json:"id" bson:"_id" yaml:"id"`
	Title       string      `json:"title" bson:"title" yaml:"title"`
	Type        MissionType `json:"type" bson:"type" yaml:"type"`
	Description string      `json:"description" bson:"description" yaml:"description"`
	Points      int64       `json:"points" bson:"points" yaml:"points"`
	HealthBonus float64     `json:"healthBonus" bson:"health_bonus" yaml:"healthBonus"`
	CO2Saved    float64     `json:"co2Saved" bson:"co2_saved" yaml:"co2Saved"`
	WaterSaved  float64     `json:"waterSaved" bson:"water_saved" yaml:"waterSaved"`
	EnergySaved float64     `json:"energySaved" bson:"energy_saved" yaml:"energySaved"`
	Difficulty  string      `json:"difficulty,omitempty" bson:"difficulty,omitempty" yaml:"difficulty"`
	Category    string      `json:"category,omitempty" bson:"category,omitempty" yaml:"category"`
	IsActive    bool        `json:"isActive" bson:"is_active" yaml:"isActive"`
	CreatedAt   time.Time   `json:"createdAt" bson:"created_at" yaml:"-"`
}

// Validate checks the catalog invariants of a mission definition.
func (m *Mission) Validate() error {
	fields := make(map[string]string)
	if m.ID == "" {
		fields["id"] = "is required"
	}
	if m.Title == "" {
		fields["title"] = "is required"
	}
	if !m.Type.Valid() {
		fields["type"] = "must be one of: qr delivery quiz social report other"
	}
	if m.Points <= 0 {
		fields["points"] = "must be greater than 0"
	}
	if m.HealthBonus < 0 {
		fields["healthBonus"] = "must not be negative"
	}
	if m.CO2Saved < 0 {
		fields["co2Saved"] = "must not be negative"
	}
	if m.WaterSaved < 0 {
		fields["waterSaved"] = "must not be negative"
	}
	if m.EnergySaved < 0 {
		fields["energySaved"] = "must not be negative"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
