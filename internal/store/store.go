// Package store holds the in-memory availability state for all parking
// spots and answers distance-ranked queries over them. All reads return
// copies; every write clamps the available count into [0, capacity] and
// bumps the store version.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/observability"
)

var (
	// ErrSpotNotFound is returned when an operation names an unknown spot id.
	ErrSpotNotFound = errors.New("parking spot not found")

	// ErrCapacityUnknown is returned when a full report targets a spot
	// whose capacity is not known.
	ErrCapacityUnknown = errors.New("spot capacity unknown")

	// ErrInvalidReport wraps user report validation failures.
	ErrInvalidReport = errors.New("invalid report")
)

// Cause identifies what triggered an availability change.
type Cause string

const (
	CauseDrift      Cause = "drift"
	CauseReport     Cause = "report"
	CauseFullReport Cause = "full_report"
)

// Change is one availability update, delivered to watchers.
type Change struct {
	Spot    domain.ParkingSpot
	Cause   Cause
	Version uint64
}

// SpotDistance pairs a spot with its distance from a query point.
type SpotDistance struct {
	domain.ParkingSpot
	Meters float64
}

// Store is a concurrency-safe availability store seeded from the catalog.
// Catalog order is preserved and used as the tie-break for equal distances.
type Store struct {
	mu    sync.RWMutex
	spots map[string]*domain.ParkingSpot
	order []string

	version uint64

	watchers      map[int]*Watcher
	nextWatcherID int

	driftStep func() int

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithDriftStep overrides the random step source used by Drift.
func WithDriftStep(step func() int) Option {
	return func(s *Store) { s.driftStep = step }
}

// New builds a Store from catalog spots, preserving their order. Seed
// availability is clamped into [0, capacity] and stamped with the current
// time.
func New(spots []domain.ParkingSpot, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Store {
	s := &Store{
		spots:     make(map[string]*domain.ParkingSpot, len(spots)),
		order:     make([]string, 0, len(spots)),
		watchers:  make(map[int]*Watcher),
		driftStep: defaultDriftStep,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(s)
	}

	now := domain.Now()
	for i := range spots {
		rec := spots[i].Clone()
		if rec.Available != nil {
			clamped := domain.ClampAvailable(*rec.Available, rec.Capacity)
			rec.Available = &clamped
		}
		rec.LastUpdated = now
		s.spots[rec.ID] = &rec
		s.order = append(s.order, rec.ID)
	}

	metrics.SpotsTracked.Set(float64(len(s.order)))
	return s
}

// defaultDriftStep returns a uniform step in [-MaxDriftStep, MaxDriftStep].
func defaultDriftStep() int {
	return rand.IntN(2*domain.MaxDriftStep+1) - domain.MaxDriftStep
}

// Get returns a copy of the spot with the given id.
func (s *Store) Get(id string) (domain.ParkingSpot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.spots[id]
	if !ok {
		return domain.ParkingSpot{}, fmt.Errorf("%w: %s", ErrSpotNotFound, id)
	}
	return rec.Clone(), nil
}

// List returns copies of all spots in catalog order.
func (s *Store) List() []domain.ParkingSpot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ParkingSpot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.spots[id].Clone())
	}
	return out
}

// SortedByDistance returns all spots ordered by great-circle distance from
// the given point, nearest first. Spots at equal distance keep their
// catalog order.
func (s *Store) SortedByDistance(from domain.Geo) []SpotDistance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SpotDistance, 0, len(s.order))
	for _, id := range s.order {
		rec := s.spots[id]
		out = append(out, SpotDistance{
			ParkingSpot: rec.Clone(),
			Meters:      domain.Distance(from, rec.Geo),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Meters < out[j].Meters })
	return out
}

// Nearest returns the closest spot to the given point. ok is false when the
// store is empty.
func (s *Store) Nearest(from domain.Geo) (SpotDistance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best     *domain.ParkingSpot
		bestDist float64
	)
	for _, id := range s.order {
		rec := s.spots[id]
		d := domain.Distance(from, rec.Geo)
		if best == nil || d < bestDist {
			best, bestDist = rec, d
		}
	}
	if best == nil {
		return SpotDistance{}, false
	}
	return SpotDistance{ParkingSpot: best.Clone(), Meters: bestDist}, true
}

// UpdateAvailability sets a spot's available count, clamped into
// [0, capacity] when capacity is known, and returns the updated spot.
func (s *Store) UpdateAvailability(id string, available int) (domain.ParkingSpot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.spots[id]
	if !ok {
		return domain.ParkingSpot{}, fmt.Errorf("%w: %s", ErrSpotNotFound, id)
	}
	s.apply(rec, domain.ClampAvailable(available, rec.Capacity), CauseReport)
	return rec.Clone(), nil
}

// ReportFull marks a spot as effectively full, leaving round(5% of
// capacity) spaces available. Spots without a known capacity cannot be
// marked full.
func (s *Store) ReportFull(id string) (domain.ParkingSpot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.spots[id]
	if !ok {
		return domain.ParkingSpot{}, fmt.Errorf("%w: %s", ErrSpotNotFound, id)
	}
	if rec.Capacity == nil {
		return domain.ParkingSpot{}, fmt.Errorf("%w: %s", ErrCapacityUnknown, id)
	}
	s.apply(rec, domain.FullReportCount(*rec.Capacity), CauseFullReport)
	return rec.Clone(), nil
}

// Apply validates a user report and applies it to the store.
func (s *Store) Apply(report domain.UserReport) (domain.ParkingSpot, error) {
	if err := report.Validate(); err != nil {
		s.metrics.Reports.WithLabelValues("invalid").Inc()
		return domain.ParkingSpot{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	var (
		rec domain.ParkingSpot
		err error
	)
	if report.Full {
		rec, err = s.ReportFull(report.SpotID)
	} else {
		rec, err = s.UpdateAvailability(report.SpotID, *report.Available)
	}

	switch {
	case err == nil:
		s.metrics.Reports.WithLabelValues("accepted").Inc()
	case errors.Is(err, ErrCapacityUnknown):
		s.metrics.Reports.WithLabelValues("capacity_unknown").Inc()
	case errors.Is(err, ErrSpotNotFound):
		s.metrics.Reports.WithLabelValues("not_found").Inc()
	}
	return rec, err
}

// Drift applies one random-walk step to every spot with a known capacity
// and returns the number of spots whose count changed. Spots without a
// capacity are skipped; a missing available count drifts from zero.
// Every visited spot gets a fresh LastUpdated stamp, including spots the
// clamp pinned at a boundary, so an actively simulated record never reads
// as stale.
func (s *Store) Drift() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, id := range s.order {
		rec := s.spots[id]
		if rec.Capacity == nil {
			continue
		}
		current := 0
		if rec.Available != nil {
			current = *rec.Available
		}
		next := domain.ClampAvailable(current+s.driftStep(), rec.Capacity)
		if rec.Available != nil && next == current {
			// Restamp without publishing a no-op change event.
			rec.LastUpdated = domain.Now()
			continue
		}
		s.apply(rec, next, CauseDrift)
		changed++
	}
	return changed
}

// Version returns the number of updates applied since the store was seeded.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of spots in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// apply records a new available count. Callers must hold the write lock.
func (s *Store) apply(rec *domain.ParkingSpot, available int, cause Cause) {
	rec.Available = &available
	rec.LastUpdated = domain.Now()
	s.version++
	s.metrics.SpotUpdates.WithLabelValues(string(cause)).Inc()
	s.notify(Change{Spot: rec.Clone(), Cause: cause, Version: s.version})
}
