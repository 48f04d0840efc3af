// Package catalog loads the seed parking catalog: the YAML data file that
// defines which spots exist, where they are, and what capacity they start
// with. The engine never hard-codes spot data; swapping the file swaps the
// deployment's coverage area.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jurinho17-sv/Lotcation/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// File is the on-disk shape of a catalog document.
type File struct {
	Spots []domain.ParkingSpot `yaml:"spots"`
}

// Load parses the embedded seed catalog.
func Load() ([]domain.ParkingSpot, error) {
	return Parse(seedYAML)
}

// SeedYAML returns the raw embedded seed document, for tooling that wants
// to decode it without the fail-fast validation Load applies.
func SeedYAML() []byte {
	return seedYAML
}

// LoadFile parses a catalog from disk, for deployments overriding the
// embedded seed via CATALOG_PATH.
func LoadFile(path string) ([]domain.ParkingSpot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	spots, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return spots, nil
}

// Parse decodes and validates catalog YAML. File order is preserved: it is
// the catalog order used to break ties between equidistant spots.
func Parse(data []byte) ([]domain.ParkingSpot, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if len(f.Spots) == 0 {
		return nil, errors.New("catalog has no spots")
	}
	if err := Validate(f.Spots); err != nil {
		return nil, err
	}
	return f.Spots, nil
}

// Validate checks every record and returns the first violation found.
func Validate(spots []domain.ParkingSpot) error {
	seen := make(map[string]bool, len(spots))
	for i, s := range spots {
		if err := validateSpot(s); err != nil {
			return fmt.Errorf("spot %d (%q): %w", i, s.ID, err)
		}
		if seen[s.ID] {
			return fmt.Errorf("spot %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func validateSpot(s domain.ParkingSpot) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Address == "" {
		return errors.New("address is required")
	}
	if !s.Geo.InRange() {
		return fmt.Errorf("coordinate out of range: lat=%g lon=%g", s.Geo.Lat, s.Geo.Lon)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("unknown category %q", s.Category)
	}
	if s.PricePerHour != nil && *s.PricePerHour < 0 {
		return fmt.Errorf("price per hour %g must be non-negative", *s.PricePerHour)
	}
	if s.Rating != nil && (*s.Rating < 0 || *s.Rating > 5) {
		return fmt.Errorf("rating %g outside [0, 5]", *s.Rating)
	}
	if s.Capacity != nil && *s.Capacity < 0 {
		return fmt.Errorf("capacity %d must be non-negative", *s.Capacity)
	}
	if s.Available != nil {
		if *s.Available < 0 {
			return fmt.Errorf("available %d must be non-negative", *s.Available)
		}
		if s.Capacity != nil && *s.Available > *s.Capacity {
			return fmt.Errorf("available %d exceeds capacity %d", *s.Available, *s.Capacity)
		}
	}
	return nil
}
