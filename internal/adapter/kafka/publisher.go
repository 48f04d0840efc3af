// Package kafka publishes availability changes to the feed topic for
// downstream consumers (notifications, analytics).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jurinho17-sv/Lotcation/internal/config"
	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/observability"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

// Publisher forwards store changes to a Kafka topic, keyed by spot id so
// consumers see each spot's changes in order.
type Publisher struct {
	writer  *kafkago.Writer
	store   *store.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured feed topic.
func NewPublisher(cfg *config.Config, st *store.Store, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFeedTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, store: st, logger: logger, metrics: metrics}
}

// Run watches the store and publishes every change until ctx is cancelled.
// Publish failures are logged and counted; the feed stays up.
func (p *Publisher) Run(ctx context.Context) error {
	w := p.store.Watch()
	defer w.Close()

	p.logger.Info("availability feed started", "topic", p.writer.Topic)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("availability feed stopping", "reason", ctx.Err())
			return nil
		case change, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := p.publish(ctx, change); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.metrics.FeedErrors.Inc()
				p.logger.Error("feed publish failed", "error", err, "spot_id", change.Spot.ID)
				continue
			}
			p.metrics.FeedPublished.Inc()
		}
	}
}

func (p *Publisher) publish(ctx context.Context, change store.Change) error {
	msg, err := serializeChange(change)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// feedSpot is the feed payload: the spot snapshot plus the derived status
// fields, so consumers never re-derive the band thresholds.
type feedSpot struct {
	domain.ParkingSpot
	Status      domain.Availability `json:"status"`
	StatusLabel string              `json:"status_label"`
	StatusColor string              `json:"status_color"`
	Stale       bool                `json:"stale"`
}

// serializeChange marshals a store change into a Kafka message keyed by
// spot id, with the cause and store version as headers.
func serializeChange(change store.Change) (kafkago.Message, error) {
	status := domain.AvailabilityOf(change.Spot.Available, change.Spot.Capacity)
	data, err := json.Marshal(feedSpot{
		ParkingSpot: change.Spot,
		Status:      status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),
		Stale:       domain.IsStale(change.Spot.LastUpdated),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize availability change: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(change.Spot.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "cause", Value: []byte(change.Cause)},
			{Key: "version", Value: []byte(strconv.FormatUint(change.Version, 10))},
		},
	}, nil
}
