package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurinho17-sv/Lotcation/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name         string
		level        string
		debugEnabled bool
		warnEnabled  bool
	}{
		{name: "debug", level: "debug", debugEnabled: true, warnEnabled: true},
		{name: "info", level: "info", debugEnabled: false, warnEnabled: true},
		{name: "error", level: "error", debugEnabled: false, warnEnabled: false},
		{name: "unknown falls back to info", level: "verbose", debugEnabled: false, warnEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, logger)

			ctx := context.Background()
			assert.Equal(t, tt.debugEnabled, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warnEnabled, logger.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestNewMetricsForTesting(t *testing.T) {
	// Multiple calls must not panic with duplicate registration.
	m1 := NewMetricsForTesting()
	m2 := NewMetricsForTesting()
	require.NotNil(t, m1)
	require.NotNil(t, m2)

	m1.SpotUpdates.WithLabelValues("drift").Inc()
	m2.DriftCycles.Inc()
}
