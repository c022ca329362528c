package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanetStatusFor(t *testing.T) {
	cases := map[float64]PlanetStatus{
		100:  PlanetThriving,
		80:   PlanetThriving,
		79.9: PlanetHealthy,
		60:   PlanetHealthy,
		45:   PlanetNeedsCare,
		40:   PlanetNeedsCare,
		39.5: PlanetCritical,
		0:    PlanetCritical,
	}
	for health, want := range cases {
		assert.Equal(t, want, PlanetStatusFor(health), "health=%v", health)
	}
}

func TestDecayPolicy_Apply(t *testing.T) {
	p := DecayPolicy{Rate: 5, Floor: 30, AlertThreshold: 40}

	next, crossed := p.Apply(75)
	assert.Equal(t, 70.0, next)
	assert.False(t, crossed)

	next, crossed = p.Apply(42)
	assert.Equal(t, 37.0, next)
	assert.True(t, crossed)

	next, crossed = p.Apply(32)
	assert.Equal(t, 30.0, next, "must stop at the floor")
	assert.False(t, crossed)

	next, crossed = p.Apply(30)
	assert.Equal(t, 30.0, next)
	assert.False(t, crossed)

	next, crossed = p.Apply(38)
	assert.Equal(t, 33.0, next)
	assert.False(t, crossed, "already below the threshold")
}

func TestTreesFor(t *testing.T) {
	assert.Equal(t, int64(0), TreesFor(0))
	assert.Equal(t, int64(8), TreesFor(124))
	assert.Equal(t, int64(1), TreesFor(7.5))
}

func TestEventID_IsDeterministic(t *testing.T) {
	assert.Equal(t, EventID("u1", "m1"), EventID("u1", "m1"))
	assert.NotEqual(t, EventID("u1", "m1"), EventID("u1", "m2"))
	assert.NotEqual(t, EventID("u1", "m1"), EventID("u2", "m1"))
}

func TestMission_Validate(t *testing.T) {
	m := &Mission{ID: "m1", Title: "Quiz", Type: MissionQuiz, Points: 50}
	assert.NoError(t, m.Validate())

	bad := &Mission{Type: "dance", Points: 0, HealthBonus: -1}
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrValidation)

	ve := err.(*ValidationError)
	assert.Contains(t, ve.Fields, "id")
	assert.Contains(t, ve.Fields, "type")
	assert.Contains(t, ve.Fields, "points")
	assert.Contains(t, ve.Fields, "healthBonus")
}
