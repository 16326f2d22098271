package venue

import (
	"errors"

	"github.com/DhavalSuthar-24/futsapp/internal/models"
)

var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrInvalidRegistry = errors.New("invalid venue registry")
)

// Venue is read-only reference data. Coordinates are optional; without them the address is
// geocoded.
type Venue struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Aliases     []string            `json:"aliases,omitempty" yaml:"aliases"`
	Address     string              `json:"address" yaml:"address"`
	Image       string              `json:"image" yaml:"image"`
	Coordinates *models.Coordinates `json:"coordinates,omitempty" yaml:"coordinates"`
}

type registryFile struct {
	Default string  `yaml:"default"`
	Venues  []Venue `yaml:"venues"`
}
