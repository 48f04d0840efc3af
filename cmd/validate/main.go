// Command validate performs integrity checks over a parking catalog file:
// required fields, value bounds, cross-field consistency, duplicate
// detection, and coverage-area sanity. It validates the embedded seed
// catalog by default, or any catalog YAML given with -catalog, so a
// deployment can vet a replacement data file before shipping it.
//
// Usage:
//
//	go run ./cmd/validate
//	go run ./cmd/validate -catalog deploy/downtown-oakland.yaml -max-span-km 15
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jurinho17-sv/Lotcation/internal/catalog"
	"github.com/jurinho17-sv/Lotcation/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "catalog YAML to validate (default: embedded seed)")
	maxSpanKM := flag.Float64("max-span-km", 25, "maximum allowed distance between any two spots")
	flag.Parse()

	if code := run(*catalogPath, *maxSpanKM); code != 0 {
		os.Exit(code)
	}
}

func run(catalogPath string, maxSpanKM float64) int {
	fmt.Println("=== Parking Catalog Integrity Validation ===")
	fmt.Println()

	spots, source, err := loadSpots(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load catalog: %v\n", err)
		return 1
	}
	fmt.Printf("Catalog: %s (%d spots)\n", source, len(spots))

	phases := []*phase{
		validateSchema(spots),
		validateBounds(spots),
		validateConsistency(spots),
		validateCoverage(spots, maxSpanKM),
	}
	phases = append(phases, validateLibraryAgreement(spots, phases[:3]))

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	printStats(spots)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// loadSpots decodes the catalog without running the library's fail-fast
// validation, so every phase can report all of its findings at once.
func loadSpots(path string) ([]domain.ParkingSpot, string, error) {
	data := catalog.SeedYAML()
	source := "embedded seed"
	if path != "" {
		var err error
		source = path
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
	}

	var f catalog.File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if len(f.Spots) == 0 {
		return nil, "", fmt.Errorf("catalog has no spots")
	}
	return f.Spots, source, nil
}

// ── Phase 1: Schema ──
// Required fields and enum membership.

func validateSchema(spots []domain.ParkingSpot) *phase {
	p := &phase{name: "Phase 1: Schema (required fields)"}

	for i, s := range spots {
		if s.ID == "" {
			p.errorf("spot %d: missing id", i)
		}
		if s.Name == "" {
			p.errorf("spot %d (%q): missing name", i, s.ID)
		}
		if s.Address == "" {
			p.errorf("spot %d (%q): missing address", i, s.ID)
		}
		if !s.Category.Valid() {
			p.errorf("spot %d (%q): category %q not in %v", i, s.ID, s.Category, domain.Categories())
		}
	}
	return p
}

// ── Phase 2: Bounds ──
// Numeric fields inside their documented ranges.

func validateBounds(spots []domain.ParkingSpot) *phase {
	p := &phase{name: "Phase 2: Bounds (coordinates, numerics)"}

	for i, s := range spots {
		if !s.Geo.InRange() {
			p.errorf("spot %d (%q): coordinate out of range: lat=%g lon=%g", i, s.ID, s.Geo.Lat, s.Geo.Lon)
		}
		if s.Geo.Lat == 0 && s.Geo.Lon == 0 {
			p.errorf("spot %d (%q): coordinate is null island (0, 0)", i, s.ID)
		}
		if s.PricePerHour != nil && *s.PricePerHour < 0 {
			p.errorf("spot %d (%q): negative price %g", i, s.ID, *s.PricePerHour)
		}
		if s.Rating != nil && (*s.Rating < 0 || *s.Rating > 5) {
			p.errorf("spot %d (%q): rating %g outside [0, 5]", i, s.ID, *s.Rating)
		}
		if s.Capacity != nil && *s.Capacity < 0 {
			p.errorf("spot %d (%q): negative capacity %d", i, s.ID, *s.Capacity)
		}
		if s.Available != nil && *s.Available < 0 {
			p.errorf("spot %d (%q): negative available %d", i, s.ID, *s.Available)
		}
	}
	return p
}

// ── Phase 3: Consistency ──
// Cross-field rules and duplicates.

func validateConsistency(spots []domain.ParkingSpot) *phase {
	p := &phase{name: "Phase 3: Consistency (cross-field, duplicates)"}

	seenID := make(map[string]int, len(spots))
	seenGeo := make(map[domain.Geo]int, len(spots))

	for i, s := range spots {
		if s.Available != nil && s.Capacity != nil && *s.Available > *s.Capacity {
			p.errorf("spot %d (%q): available %d exceeds capacity %d", i, s.ID, *s.Available, *s.Capacity)
		}
		if s.Available != nil && s.Capacity == nil {
			p.errorf("spot %d (%q): has a live count but no capacity", i, s.ID)
		}

		if s.ID != "" {
			if j, ok := seenID[s.ID]; ok {
				p.errorf("spot %d: duplicate id %q (first at %d)", i, s.ID, j)
			} else {
				seenID[s.ID] = i
			}
		}
		if j, ok := seenGeo[s.Geo]; ok {
			p.errorf("spot %d (%q): same coordinate as spot %d (%q)", i, s.ID, j, spots[j].ID)
		} else {
			seenGeo[s.Geo] = i
		}
	}
	return p
}

// ── Phase 5: Library Agreement ──
// The service loads catalogs through catalog.Validate. A file that passes
// every record phase here but is rejected by the service loader means the
// two rule sets have drifted. (This tool is deliberately stricter than the
// loader, so the reverse is not an error.)

func validateLibraryAgreement(spots []domain.ParkingSpot, recordPhases []*phase) *phase {
	p := &phase{name: "Phase 5: Library Agreement (catalog.Validate)"}

	handPassed := true
	for _, rp := range recordPhases {
		if !rp.passed() {
			handPassed = false
		}
	}

	if libErr := catalog.Validate(spots); handPassed && libErr != nil {
		p.errorf("catalog passes record phases but catalog.Validate rejects it: %v", libErr)
	}
	return p
}

// ── Phase 4: Coverage ──
// All spots inside one plausible coverage area. A spot far outside the
// cluster is almost always a sign error or a swapped lat/lon.

func validateCoverage(spots []domain.ParkingSpot, maxSpanKM float64) *phase {
	p := &phase{name: "Phase 4: Coverage (area span)"}

	maxMeters := maxSpanKM * 1000
	for i := range spots {
		for j := i + 1; j < len(spots); j++ {
			d := domain.Distance(spots[i].Geo, spots[j].Geo)
			if d > maxMeters {
				p.errorf("spots %q and %q are %.1f km apart (max %g km)",
					spots[i].ID, spots[j].ID, d/1000, maxSpanKM)
			}
		}
	}
	return p
}

// ── Stats ──

func printStats(spots []domain.ParkingSpot) {
	byCategory := map[domain.Category]int{}
	byBand := map[domain.Availability]int{}
	withCapacity := 0
	totalCapacity := 0
	for _, s := range spots {
		byCategory[s.Category]++
		byBand[domain.AvailabilityOf(s.Available, s.Capacity)]++
		if s.Capacity != nil {
			withCapacity++
			totalCapacity += *s.Capacity
		}
	}

	fmt.Println()
	fmt.Printf("By category:")
	for _, c := range domain.Categories() {
		fmt.Printf(" %s=%d", c, byCategory[c])
	}
	fmt.Println()

	fmt.Printf("Seed status bands:")
	for _, b := range []domain.Availability{
		domain.AvailabilityPlenty, domain.AvailabilityModerate,
		domain.AvailabilityLimited, domain.AvailabilityNearlyFull,
		domain.AvailabilityUnknown,
	} {
		fmt.Printf(" %s=%d", b, byBand[b])
	}
	fmt.Println()

	fmt.Printf("Capacity: %d spots tracked, %d spaces total\n", withCapacity, totalCapacity)
}
