package ports

import (
	"context"
	"time"
)

// PlanetAlert is raised when a planet's health falls below the alert threshold.
type PlanetAlert struct {
	UserID       string    `json:"userId"`
	PlanetHealth float64   `json:"planetHealth"`
	Threshold    float64   `json:"threshold"`
	At           time.Time `json:"at"`
}

// Notifier delivers planet alerts to whoever is listening.
type Notifier interface {
	PlanetCritical(ctx context.Context, alert PlanetAlert) error
}
