// Package simulator drives the availability drift cycle on a fixed
// schedule, standing in for a live sensor or partner feed.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jurinho17-sv/Lotcation/internal/observability"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

// Simulator runs the store's drift cycle once at startup and then on every
// scheduler tick. Cycles never overlap: a tick that fires while the
// previous cycle is still running is skipped.
type Simulator struct {
	store    *store.Store
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
	metrics  *observability.Metrics

	ready   atomic.Bool
	running atomic.Bool
}

// New creates a Simulator driving the given store every interval.
func New(st *store.Store, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Simulator {
	return &Simulator{
		store:    st,
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Start runs the first drift cycle synchronously, so availability data is
// live before the service reports ready, then starts the scheduler.
func (s *Simulator) Start() error {
	s.runCycle()

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.runCycle); err != nil {
		return fmt.Errorf("scheduling drift cycle: %w", err)
	}
	s.cron.Start()
	s.metrics.SimulatorRunning.Set(1)
	s.logger.Info("simulator started", "interval", s.interval, "spots", s.store.Len())
	return nil
}

// Stop halts scheduling and waits for an in-flight cycle to finish, or for
// ctx to expire.
func (s *Simulator) Stop(ctx context.Context) error {
	drained := s.cron.Stop()
	s.metrics.SimulatorRunning.Set(0)

	select {
	case <-drained.Done():
		s.logger.Info("simulator stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckReadiness returns nil once the first drift cycle has completed,
// or an error describing why the service is not yet ready.
func (s *Simulator) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("first availability cycle has not completed yet")
	}
	return nil
}

func (s *Simulator) runCycle() {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.DriftCyclesSkipped.Inc()
		s.logger.Warn("drift cycle still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	changed := s.store.Drift()

	s.metrics.DriftCycles.Inc()
	s.metrics.DriftCycleDuration.Observe(time.Since(start).Seconds())
	s.ready.Store(true)
	s.logger.Debug("drift cycle complete", "changed", changed, "duration", time.Since(start))
}
