// Command genmock generates a synthetic parking catalog for demos and load
// tests: n spots scattered around a center coordinate, written as catalog
// YAML. It builds real domain records and runs them through the catalog
// validator, so generated files always load in the service.
//
// Usage:
//
//	go run ./cmd/genmock -n 40 -out data/mock/catalog_40.yaml
//	go run ./cmd/genmock -n 200 -center-lat 37.8044 -center-lon -122.2712 -radius-km 3 -seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jurinho17-sv/Lotcation/internal/catalog"
	"github.com/jurinho17-sv/Lotcation/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 40, "number of spots to generate")
	centerLat := flag.Float64("center-lat", 37.3352, "coverage area center latitude")
	centerLon := flag.Float64("center-lon", -121.8863, "coverage area center longitude")
	radiusKM := flag.Float64("radius-km", 2.5, "coverage area radius")
	seed := flag.Uint64("seed", 1, "RNG seed for reproducible output")
	out := flag.String("out", "", "output path for the catalog YAML")
	flag.Parse()

	if *n <= 0 || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -n must be positive, -out must be set")
	}
	center := domain.Geo{Lat: *centerLat, Lon: *centerLon}
	if !center.InRange() {
		return fmt.Errorf("center coordinate out of range: lat=%g lon=%g", center.Lat, center.Lon)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	spots := generate(rng, *n, center, *radiusKM)

	if err := catalog.Validate(spots); err != nil {
		return fmt.Errorf("generated catalog failed validation: %w", err)
	}

	if err := writeCatalog(*out, spots); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	log.Printf("wrote %d spots: %s", len(spots), *out)

	printStats(spots, center)
	return nil
}

var (
	streetNames = []string{
		"1st", "2nd", "3rd", "4th", "Market", "San Pedro", "Santa Clara",
		"San Fernando", "San Carlos", "Julian", "Almaden", "Park",
	}

	// categorySpecs controls the mix and the capacity range per category.
	// Street segments carry no capacity data, matching real curb parking.
	categorySpecs = []struct {
		category    domain.Category
		weight      int
		minCapacity int
		maxCapacity int
	}{
		{domain.CategoryGarage, 4, 200, 1200},
		{domain.CategoryLot, 3, 40, 250},
		{domain.CategoryMetered, 2, 8, 40},
		{domain.CategoryStreet, 2, 0, 0},
	}

	restrictions = []string{
		"2 hour limit 9am-6pm Mon-Sat",
		"Meters enforced 10am-midnight daily",
		"No parking 4-6pm weekdays",
		"Permit only after 8pm",
	}
)

func generate(rng *rand.Rand, n int, center domain.Geo, radiusKM float64) []domain.ParkingSpot {
	spots := make([]domain.ParkingSpot, 0, n)
	for i := range n {
		spec := pickCategory(rng)
		spot := domain.ParkingSpot{
			ID:       fmt.Sprintf("mock-%s-%03d", spec.category, i),
			Geo:      scatter(rng, center, radiusKM),
			Category: spec.category,
		}

		street := streetNames[rng.IntN(len(streetNames))]
		switch spec.category {
		case domain.CategoryGarage:
			spot.Name = fmt.Sprintf("%s Street Garage %d", street, i)
			spot.Address = fmt.Sprintf("%d %s St", 10+rng.IntN(900), street)
		case domain.CategoryLot:
			spot.Name = fmt.Sprintf("%s Street Lot %d", street, i)
			spot.Address = fmt.Sprintf("%d %s St", 10+rng.IntN(900), street)
		case domain.CategoryMetered:
			spot.Name = fmt.Sprintf("%s Street Meters %d", street, i)
			spot.Address = fmt.Sprintf("%s St block %d", street, 1+rng.IntN(9))
			spot.Restriction = restrictions[rng.IntN(len(restrictions))]
		case domain.CategoryStreet:
			spot.Name = fmt.Sprintf("%s Street Curbside %d", street, i)
			spot.Address = fmt.Sprintf("%s St block %d", street, 1+rng.IntN(9))
			spot.Restriction = restrictions[rng.IntN(len(restrictions))]
		}

		if spec.maxCapacity > 0 {
			capacity := spec.minCapacity + rng.IntN(spec.maxCapacity-spec.minCapacity+1)
			available := rng.IntN(capacity + 1)
			spot.Capacity = &capacity
			spot.Available = &available

			price := float64(1+rng.IntN(9)) / 2 // 0.5 steps, 0.5-4.5
			spot.PricePerHour = &price
		}

		// Ratings are sparse, like real place data.
		if rng.IntN(4) > 0 {
			rating := math.Round((2.5+rng.Float64()*2.5)*10) / 10
			spot.Rating = &rating
		}

		spots = append(spots, spot)
	}
	return spots
}

func pickCategory(rng *rand.Rand) struct {
	category    domain.Category
	weight      int
	minCapacity int
	maxCapacity int
} {
	total := 0
	for _, s := range categorySpecs {
		total += s.weight
	}
	pick := rng.IntN(total)
	for _, s := range categorySpecs {
		if pick < s.weight {
			return s
		}
		pick -= s.weight
	}
	return categorySpecs[0]
}

// scatter draws a point uniformly within radiusKM of center. The sqrt keeps
// density uniform over the disc instead of clustering at the center.
func scatter(rng *rand.Rand, center domain.Geo, radiusKM float64) domain.Geo {
	distKM := radiusKM * math.Sqrt(rng.Float64())
	bearing := rng.Float64() * 2 * math.Pi

	const kmPerDegLat = 111.32
	dLat := distKM * math.Cos(bearing) / kmPerDegLat
	dLon := distKM * math.Sin(bearing) / (kmPerDegLat * math.Cos(center.Lat*math.Pi/180))

	return domain.Geo{Lat: center.Lat + dLat, Lon: center.Lon + dLon}
}

func writeCatalog(path string, spots []domain.ParkingSpot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(catalog.File{Spots: spots})
	if err != nil {
		return err
	}
	header := []byte("# Generated by cmd/genmock. Do not edit by hand.\n")
	return os.WriteFile(path, append(header, data...), 0o600)
}

func printStats(spots []domain.ParkingSpot, center domain.Geo) {
	byCategory := map[domain.Category]int{}
	byBand := map[domain.Availability]int{}
	totalCapacity := 0
	var maxDist float64
	for _, s := range spots {
		byCategory[s.Category]++
		byBand[domain.AvailabilityOf(s.Available, s.Capacity)]++
		if s.Capacity != nil {
			totalCapacity += *s.Capacity
		}
		if d := domain.Distance(center, s.Geo); d > maxDist {
			maxDist = d
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d spots, %d tracked spaces\n", len(spots), totalCapacity)
	fmt.Printf("By category: garage=%d, lot=%d, metered=%d, street=%d\n",
		byCategory[domain.CategoryGarage], byCategory[domain.CategoryLot],
		byCategory[domain.CategoryMetered], byCategory[domain.CategoryStreet])
	fmt.Printf("By band: plenty=%d, moderate=%d, limited=%d, nearly_full=%d, unknown=%d\n",
		byBand[domain.AvailabilityPlenty], byBand[domain.AvailabilityModerate],
		byBand[domain.AvailabilityLimited], byBand[domain.AvailabilityNearlyFull],
		byBand[domain.AvailabilityUnknown])
	fmt.Printf("Farthest spot from center: %.2f km\n", maxDist/1000)
}
