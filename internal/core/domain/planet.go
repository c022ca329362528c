package domain

import "math"

const (
	MaxPlanetHealth = 100.0
	MinPlanetHealth = 0.0
)

// PlanetStatus is the display band of a planet health value.
type PlanetStatus string

const (
	PlanetThriving  PlanetStatus = "thriving"
	PlanetHealthy   PlanetStatus = "healthy"
	PlanetNeedsCare PlanetStatus = "needs_care"
	PlanetCritical  PlanetStatus = "critical"
)

// PlanetStatusFor maps a health value to its band.
func PlanetStatusFor(health float64) PlanetStatus {
	switch {
	case health >= 80:
		return PlanetThriving
	case health >= 60:
		return PlanetHealthy
	case health >= 40:
		return PlanetNeedsCare
	default:
		return PlanetCritical
	}
}

// ClampHealth bounds h to [0,100].
func ClampHealth(h float64) float64 {
	return math.Max(MinPlanetHealth, math.Min(MaxPlanetHealth, h))
}

// DecayPolicy lowers planet health over time toward Floor.
type DecayPolicy struct {
	Rate           float64
	Floor          float64
	AlertThreshold float64
}

// Apply returns the decayed health and whether the drop crossed the alert
// threshold. Health already at or below the floor is left alone.
func (p DecayPolicy) Apply(health float64) (next float64, crossed bool) {
	if health <= p.Floor || p.Rate <= 0 {
		return health, false
	}
	next = ClampHealth(math.Max(p.Floor, health-p.Rate))
	crossed = health >= p.AlertThreshold && next < p.AlertThreshold
	return next, crossed
}
