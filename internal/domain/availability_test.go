package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestAvailabilityOf(t *testing.T) {
	tests := []struct {
		name      string
		available *int
		capacity  *int
		expected  Availability
	}{
		{"plenty", intPtr(480), intPtr(650), AvailabilityPlenty},
		{"moderate", intPtr(200), intPtr(650), AvailabilityModerate},
		{"limited", intPtr(80), intPtr(650), AvailabilityLimited},
		{"nearly full", intPtr(10), intPtr(650), AvailabilityNearlyFull},
		{"empty spot", intPtr(0), intPtr(400), AvailabilityNearlyFull},
		{"completely open", intPtr(400), intPtr(400), AvailabilityPlenty},

		// Band boundaries are right-closed: a ratio exactly on the
		// threshold belongs to the lower band.
		{"boundary 0.50 is moderate", intPtr(200), intPtr(400), AvailabilityModerate},
		{"boundary 0.20 is limited", intPtr(80), intPtr(400), AvailabilityLimited},
		{"boundary 0.05 is nearly full", intPtr(20), intPtr(400), AvailabilityNearlyFull},
		{"just above 0.50 is plenty", intPtr(201), intPtr(400), AvailabilityPlenty},
		{"just above 0.20 is moderate", intPtr(81), intPtr(400), AvailabilityModerate},
		{"just above 0.05 is limited", intPtr(21), intPtr(400), AvailabilityLimited},

		{"unknown available", nil, intPtr(400), AvailabilityUnknown},
		{"unknown capacity", intPtr(12), nil, AvailabilityUnknown},
		{"both unknown", nil, nil, AvailabilityUnknown},
		{"zero capacity", intPtr(0), intPtr(0), AvailabilityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AvailabilityOf(tt.available, tt.capacity))
		})
	}
}

func TestRatio(t *testing.T) {
	t.Run("defined", func(t *testing.T) {
		r, ok := Ratio(intPtr(130), intPtr(650))
		assert.True(t, ok)
		assert.InDelta(t, 0.2, r, 1e-9)
	})

	t.Run("undefined without capacity", func(t *testing.T) {
		_, ok := Ratio(intPtr(130), nil)
		assert.False(t, ok)
	})

	t.Run("undefined without available", func(t *testing.T) {
		_, ok := Ratio(nil, intPtr(650))
		assert.False(t, ok)
	})

	t.Run("undefined at zero capacity", func(t *testing.T) {
		_, ok := Ratio(intPtr(0), intPtr(0))
		assert.False(t, ok)
	})
}

func TestAvailabilityLabel(t *testing.T) {
	tests := []struct {
		band     Availability
		expected string
	}{
		{AvailabilityPlenty, "Plenty of spaces"},
		{AvailabilityModerate, "Moderate availability"},
		{AvailabilityLimited, "Limited spaces"},
		{AvailabilityNearlyFull, "Nearly full"},
		{AvailabilityUnknown, "Unknown availability"},
		{Availability("bogus"), "Unknown availability"},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.band.Label())
		})
	}
}

func TestAvailabilityColor(t *testing.T) {
	tests := []struct {
		band     Availability
		expected string
	}{
		{AvailabilityPlenty, "green"},
		{AvailabilityModerate, "orange"},
		{AvailabilityLimited, "red"},
		{AvailabilityNearlyFull, "red"},
		{AvailabilityUnknown, "gray"},
		{Availability("bogus"), "gray"},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.band.Color())
		})
	}
}

func TestIsStale(t *testing.T) {
	fixedTime := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mockClock := clockwork.NewFakeClockAt(fixedTime)
	SetClock(mockClock)
	defer SetClock(nil)

	tests := []struct {
		name     string
		updated  time.Time
		expected bool
	}{
		{"just updated", fixedTime, false},
		{"five minutes old", fixedTime.Add(-5 * time.Minute), false},
		{"exactly at threshold", fixedTime.Add(-StaleAfter), false},
		{"one second past threshold", fixedTime.Add(-StaleAfter - time.Second), true},
		{"an hour old", fixedTime.Add(-time.Hour), true},
		{"zero time", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsStale(tt.updated))
		})
	}
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mockClock := clockwork.NewFakeClockAt(fixedTime)

		SetClock(mockClock)
		assert.Equal(t, fixedTime, Now())

		SetClock(nil) // reset
	})

	t.Run("reset to real clock", func(t *testing.T) {
		fixedTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mockClock := clockwork.NewFakeClockAt(fixedTime)

		SetClock(mockClock)
		SetClock(nil)

		// Real clock should return current time (within a small window)
		assert.True(t, time.Since(Now()) < time.Second)
	})
}
