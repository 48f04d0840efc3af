package domain

import "time"

// Availability is the user-facing status band derived from the ratio of
// available spaces to capacity. Bands drive the pin color and label in the
// app; they are computed at read time and never stored.
type Availability string

const (
	AvailabilityUnknown    Availability = "unknown"
	AvailabilityPlenty     Availability = "plenty"
	AvailabilityModerate   Availability = "moderate"
	AvailabilityLimited    Availability = "limited"
	AvailabilityNearlyFull Availability = "nearly_full"
)

// AvailabilityOf classifies a spot's availability ratio into a band:
//   - ratio > 0.50: plenty
//   - 0.20 < ratio <= 0.50: moderate
//   - 0.05 < ratio <= 0.20: limited
//   - ratio <= 0.05: nearly full
//
// Records with an undefined ratio (missing counts or zero capacity)
// classify as unknown.
func AvailabilityOf(available, capacity *int) Availability {
	r, ok := Ratio(available, capacity)
	if !ok {
		return AvailabilityUnknown
	}

	switch {
	case r > 0.50:
		return AvailabilityPlenty
	case r > 0.20:
		return AvailabilityModerate
	case r > 0.05:
		return AvailabilityLimited
	default:
		return AvailabilityNearlyFull
	}
}

// Ratio returns available/capacity. ok is false when either count is
// missing or capacity is not positive, leaving the ratio undefined.
func Ratio(available, capacity *int) (float64, bool) {
	if available == nil || capacity == nil || *capacity <= 0 {
		return 0, false
	}
	return float64(*available) / float64(*capacity), true
}

// Label returns the description the app shows next to a spot.
func (a Availability) Label() string {
	switch a {
	case AvailabilityPlenty:
		return "Plenty of spaces"
	case AvailabilityModerate:
		return "Moderate availability"
	case AvailabilityLimited:
		return "Limited spaces"
	case AvailabilityNearlyFull:
		return "Nearly full"
	default:
		return "Unknown availability"
	}
}

// Color returns the map-pin color key for the band.
func (a Availability) Color() string {
	switch a {
	case AvailabilityPlenty:
		return "green"
	case AvailabilityModerate:
		return "orange"
	case AvailabilityLimited, AvailabilityNearlyFull:
		return "red"
	default:
		return "gray"
	}
}

// StaleAfter is how old a record's last update may grow before query
// responses carry the stale-data flag.
const StaleAfter = 15 * time.Minute

// IsStale reports whether data last updated at t is older than StaleAfter
// on the package clock. A zero time always counts as stale.
func IsStale(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return clock.Now().Sub(t) > StaleAfter
}
