package domain

import (
	"math"
	"slices"
	"time"
)

// Category classifies how a parking spot is operated.
type Category string

const (
	CategoryStreet  Category = "street"
	CategoryGarage  Category = "garage"
	CategoryLot     Category = "lot"
	CategoryMetered Category = "metered"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{CategoryStreet, CategoryGarage, CategoryLot, CategoryMetered}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStreet, CategoryGarage, CategoryLot, CategoryMetered:
		return true
	default:
		return false
	}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// InRange reports whether the coordinate is a real point on the globe:
// latitude in [-90, 90], longitude in [-180, 180].
func (g Geo) InRange() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// ParkingSpot is one entry in the parking catalog: identity, position and
// pricing metadata fixed at seed time, plus the availability fields the
// engine mutates at runtime. Optional fields are pointers; nil means the
// catalog carries no data for them, which is distinct from zero.
type ParkingSpot struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Address      string    `json:"address" yaml:"address"`
	Geo          Geo       `json:"geo" yaml:"geo"`
	Category     Category  `json:"category" yaml:"category"`
	PricePerHour *float64  `json:"price_per_hour,omitempty" yaml:"price_per_hour,omitempty"`
	Rating       *float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Capacity     *int      `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Available    *int      `json:"available,omitempty" yaml:"available,omitempty"`
	Restriction  string    `json:"restriction,omitempty" yaml:"restriction,omitempty"`
	ImageIDs     []string  `json:"image_ids,omitempty" yaml:"image_ids,omitempty"`
	LastUpdated  time.Time `json:"last_updated" yaml:"-"`
}

// Clone returns a deep copy, so callers can never alias store-owned state
// through the pointer and slice fields.
func (s ParkingSpot) Clone() ParkingSpot {
	out := s
	out.PricePerHour = clonePtr(s.PricePerHour)
	out.Rating = clonePtr(s.Rating)
	out.Capacity = clonePtr(s.Capacity)
	out.Available = clonePtr(s.Available)
	out.ImageIDs = slices.Clone(s.ImageIDs)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MaxDriftStep bounds a single simulated availability change: each drift
// cycle moves a spot's count by a uniform integer in [-MaxDriftStep, +MaxDriftStep].
const MaxDriftStep = 5

// FullReportFraction is the share of capacity recorded as still free when a
// user reports a spot full.
const FullReportFraction = 0.05

// ClampAvailable bounds n so that 0 <= n <= capacity holds after every
// write. With unknown capacity only the lower bound applies.
func ClampAvailable(n int, capacity *int) int {
	if n < 0 {
		return 0
	}
	if capacity != nil && n > *capacity {
		return *capacity
	}
	return n
}

// FullReportCount converts a full report into the stored available count:
// round(FullReportFraction * capacity).
func FullReportCount(capacity int) int {
	return int(math.Round(FullReportFraction * float64(capacity)))
}
