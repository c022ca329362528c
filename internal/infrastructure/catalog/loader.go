// Package catalog reads mission catalogs from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bethwel3001/Eco-mission/internal/core/domain"
)

//go:embed missions.yaml
var defaultCatalog string

type file struct {
	Missions []entry `yaml:"missions"`
}

// entry mirrors domain.Mission; IsActive is a pointer so an omitted key
// means active.
type entry struct {
	ID          string             `yaml:"id"`
	Title       string             `yaml:"title"`
	Type        domain.MissionType `yaml:"type"`
	Description string             `yaml:"description"`
	Points      int64              `yaml:"points"`
	HealthBonus float64            `yaml:"healthBonus"`
	CO2Saved    float64            `yaml:"co2Saved"`
	WaterSaved  float64            `yaml:"waterSaved"`
	EnergySaved float64            `yaml:"energySaved"`
	Difficulty  string             `yaml:"difficulty"`
	Category    string             `yaml:"category"`
	IsActive    *bool              `yaml:"isActive"`
}

// Default returns the built-in catalog.
func Default() ([]*domain.Mission, error) {
	return Parse(strings.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from path. An empty path yields the built-in catalog.
func LoadFile(path string) ([]*domain.Mission, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalog. Unknown keys and duplicate ids are
// rejected.
func Parse(r io.Reader) ([]*domain.Mission, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Missions))
	missions := make([]*domain.Mission, 0, len(f.Missions))
	for i, e := range f.Missions {
		m := e.toDomain()
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate mission id %q", i, m.ID)
		}
		seen[m.ID] = struct{}{}
		missions = append(missions, m)
	}
	return missions, nil
}

func (e entry) toDomain() *domain.Mission {
	active := true
	if e.IsActive != nil {
		active = *e.IsActive
	}
	return &domain.Mission{
		ID:          strings.TrimSpace(e.ID),
		Title:       e.Title,
		Type:        e.Type,
		Description: e.Description,
		Points:      e.Points,
		HealthBonus: e.HealthBonus,
		CO2Saved:    e.CO2Saved,
		WaterSaved:  e.WaterSaved,
		EnergySaved: e.EnergySaved,
		Difficulty:  e.Difficulty,
		Category:    e.Category,
		IsActive:    active,
	}
}
