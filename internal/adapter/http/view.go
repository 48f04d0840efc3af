package http

import (
	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

// SpotView is the API shape of a parking spot: the catalog record plus the
// derived status band, the stale-data flag, and the distance from the
// query point when one was given.
type SpotView struct {
	domain.ParkingSpot
	Status      domain.Availability `json:"status"`
	StatusLabel string              `json:"status_label"`
	StatusColor string              `json:"status_color"`
	Stale       bool                `json:"stale"`
	DistanceM   *float64            `json:"distance_m,omitempty"`
}

func newSpotView(rec domain.ParkingSpot) SpotView {
	status := domain.AvailabilityOf(rec.Available, rec.Capacity)
	return SpotView{
		ParkingSpot: rec,
		Status:      status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),
		Stale:       domain.IsStale(rec.LastUpdated),
	}
}

func newSpotDistanceView(sd store.SpotDistance) SpotView {
	view := newSpotView(sd.ParkingSpot)
	view.DistanceM = &sd.Meters
	return view
}
