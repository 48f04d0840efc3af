package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// availability store and its drift simulator.
type Metrics struct {
	SpotsTracked   prometheus.Gauge
	SpotUpdates    *prometheus.CounterVec // labels: cause={drift,report,full_report}
	Reports        *prometheus.CounterVec // labels: outcome={accepted,invalid,not_found,capacity_unknown}
	WatchersActive prometheus.Gauge
	WatchDropped   prometheus.Counter

	// Drift simulator metrics.
	DriftCycles        prometheus.Counter
	DriftCycleDuration prometheus.Histogram
	DriftCyclesSkipped prometheus.Counter
	SimulatorRunning   prometheus.Gauge

	// Availability feed metrics.
	FeedPublished prometheus.Counter
	FeedErrors    prometheus.Counter
	FeedEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SpotsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lotcation",
			Name:      "spots_tracked",
			Help:      "Number of parking spots held in the store.",
		}),
		SpotUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "spot_updates_total",
			Help:      "Availability updates applied to the store by cause.",
		}, []string{"cause"}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "reports_total",
			Help:      "User reports received by outcome.",
		}, []string{"outcome"}),
		WatchersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lotcation",
			Name:      "watchers_active",
			Help:      "Number of change watchers currently subscribed.",
		}),
		WatchDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "watch_dropped_total",
			Help:      "Change events dropped because a watcher buffer was full.",
		}),
		DriftCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "drift_cycles_total",
			Help:      "Completed availability drift cycles.",
		}),
		DriftCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lotcation",
			Name:      "drift_cycle_duration_seconds",
			Help:      "Duration of a complete drift cycle over all spots.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		DriftCyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "drift_cycles_skipped_total",
			Help:      "Drift cycles skipped because the previous cycle was still running.",
		}),
		SimulatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lotcation",
			Name:      "simulator_running",
			Help:      "1 when the drift simulator is active, 0 when shut down.",
		}),
		FeedPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "feed_published_total",
			Help:      "Change events published to the availability feed.",
		}),
		FeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lotcation",
			Name:      "feed_errors_total",
			Help:      "Failures publishing change events to the availability feed.",
		}),
		FeedEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lotcation",
			Name:      "feed_enabled",
			Help:      "1 when the availability feed is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SpotsTracked,
		m.SpotUpdates,
		m.Reports,
		m.WatchersActive,
		m.WatchDropped,
		m.DriftCycles,
		m.DriftCycleDuration,
		m.DriftCyclesSkipped,
		m.SimulatorRunning,
		m.FeedPublished,
		m.FeedErrors,
		m.FeedEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SpotsTracked:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lotcation", Name: "spots_tracked"}),
		SpotUpdates:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lotcation", Name: "spot_updates_total"}, []string{"cause"}),
		Reports:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lotcation", Name: "reports_total"}, []string{"outcome"}),
		WatchersActive:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lotcation", Name: "watchers_active"}),
		WatchDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lotcation", Name: "watch_dropped_total"}),
		DriftCycles:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lotcation", Name: "drift_cycles_total"}),
		DriftCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "lotcation", Name: "drift_cycle_duration_seconds"}),
		DriftCyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lotcation", Name: "drift_cycles_skipped_total"}),
		SimulatorRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lotcation", Name: "simulator_running"}),
		FeedPublished:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lotcation", Name: "feed_published_total"}),
		FeedErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lotcation", Name: "feed_errors_total"}),
		FeedEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lotcation", Name: "feed_enabled"}),
	}
}
