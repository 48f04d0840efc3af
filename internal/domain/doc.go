// Package domain models the parking catalog behind the Lotcation app.
//
// # Data Source
//
// The catalog is seeded from a YAML data file (see internal/catalog) with
// one record per parking spot: identity, coordinates, category, pricing and
// capacity metadata. There is no live sensor feed; availability counts are
// simulated by a periodic drift cycle and corrected by crowdsourced user
// reports, standing in for the sensor/provider integration a production
// deployment would plug in at the store boundary.
//
// # Availability Model
//
// Capacity and the live available count are both optional. A nil pointer
// means the catalog has no data, which is distinct from a zero count
// (a known-full spot). Whenever capacity is known the engine maintains
//
//	0 <= available <= capacity
//
// by clamping on every write path. Each availability mutation refreshes the
// record's LastUpdated stamp from the package clock; stamps never move
// backwards.
//
// # Status Classification
//
// The user-facing status band is derived from the ratio of available spaces
// to capacity, never stored:
//
//	ratio > 0.50          plenty       "Plenty of spaces"       green
//	0.20 < ratio <= 0.50  moderate     "Moderate availability"  orange
//	0.05 < ratio <= 0.20  limited      "Limited spaces"         red
//	ratio <= 0.05         nearly_full  "Nearly full"            red
//	undefined             unknown      "Unknown availability"   gray
//
// The ratio is undefined when capacity or the live count is missing, or
// capacity is zero. See [AvailabilityOf].
//
// # Full Reports
//
// A user reporting a spot as full does not zero the count. The stored value
// becomes round(0.05 x capacity), a small nonzero floor reflecting turnover
// noise in crowdsourced reports. See [FullReportCount].
//
// # Staleness
//
// Records untouched for more than [StaleAfter] (15 minutes) are flagged
// stale in query responses so the app can render an indicator. Staleness is
// derived at read time from LastUpdated, never stored.
package domain
