package domain

import (
	"errors"
	"time"
)

// UserReport is a crowdsourced availability correction: either an explicit
// count of free spaces or a spot-is-full flag, never both. A report adjusts
// the live record and is then discarded; no report history is kept.
type UserReport struct {
	ID         string    `json:"id"`
	SpotID     string    `json:"spot_id"`
	Available  *int      `json:"available,omitempty"`
	Full       bool      `json:"full,omitempty"`
	Note       string    `json:"note,omitempty"`
	Reporter   string    `json:"reporter,omitempty"` // empty means anonymous
	ReportedAt time.Time `json:"reported_at"`
}

// Validate checks a report's shape before it reaches the store.
func (r UserReport) Validate() error {
	if r.SpotID == "" {
		return errors.New("user report: spot id is required")
	}
	if r.Full && r.Available != nil {
		return errors.New("user report: available count and full flag are mutually exclusive")
	}
	if !r.Full && r.Available == nil {
		return errors.New("user report: an available count or the full flag is required")
	}
	if r.Available != nil && *r.Available < 0 {
		return errors.New("user report: available count must be non-negative")
	}
	return nil
}
