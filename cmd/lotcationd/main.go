package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/jurinho17-sv/Lotcation/internal/adapter/http"
	kafkaadapter "github.com/jurinho17-sv/Lotcation/internal/adapter/kafka"
	"github.com/jurinho17-sv/Lotcation/internal/catalog"
	"github.com/jurinho17-sv/Lotcation/internal/config"
	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/observability"
	"github.com/jurinho17-sv/Lotcation/internal/simulator"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Load the spot catalog (embedded seed unless CATALOG_PATH overrides it).
	var spots []domain.ParkingSpot
	if cfg.CatalogPath != "" {
		spots, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		spots, err = catalog.Load()
	}
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "spots", len(spots))

	st := store.New(spots, logger, metrics)
	sim := simulator.New(st, cfg.UpdateInterval, logger, metrics)
	srv := httpadapter.NewServer(cfg, st, sim, logger)

	// Availability feed (feature-flagged via FEED_ENABLED / KAFKA_BROKERS).
	var feed *kafkaadapter.Publisher
	if cfg.FeedEnabled {
		feed = kafkaadapter.NewPublisher(cfg, st, logger, metrics)
		metrics.FeedEnabled.Set(1)
		logger.Info("availability feed enabled", "topic", cfg.KafkaFeedTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("availability feed disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(); err != nil {
		logger.Error("failed to start simulator", "error", err)
		os.Exit(1)
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start availability feed.
	if feed != nil {
		go func() {
			if err := feed.Run(ctx); err != nil {
				logger.Error("availability feed error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := sim.Stop(shutdownCtx); err != nil {
		logger.Error("simulator stop error", "error", err)
	}
	if feed != nil {
		if err := feed.Close(); err != nil {
			logger.Error("feed close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
