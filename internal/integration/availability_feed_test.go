//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/jurinho17-sv/Lotcation/internal/adapter/kafka"
	"github.com/jurinho17-sv/Lotcation/internal/config"
	"github.com/jurinho17-sv/Lotcation/internal/domain"
	"github.com/jurinho17-sv/Lotcation/internal/observability"
	"github.com/jurinho17-sv/Lotcation/internal/store"
)

const testFeedTopic = "test-availability-changes"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int { return &n }

// startKafka runs a single-node Kafka in a container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// feedMessage holds a deserialized message read from the feed topic.
type feedMessage struct {
	Spot    domain.ParkingSpot
	Key     string
	Headers map[string]string
}

func readFeed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) feedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from feed topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var spot domain.ParkingSpot
	require.NoError(t, json.Unmarshal(msg.Value, &spot), "unmarshal feed message")

	return feedMessage{
		Spot:    spot,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestAvailabilityFeedEndToEnd runs the publisher against real Kafka and
// verifies that store writes arrive on the feed topic in order, keyed by
// spot id, with cause and version headers.
func TestAvailabilityFeedEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testFeedTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaFeedTopic: testFeedTopic,
		FeedEnabled:    true,
	}

	spots := []domain.ParkingSpot{
		{ID: "garage-a", Name: "Garage A", Address: "44 S 4th St", Geo: domain.Geo{Lat: 37.3352, Lon: -121.8811}, Category: domain.CategoryGarage, Capacity: intPtr(650), Available: intPtr(480)},
		{ID: "garage-b", Name: "Garage B", Address: "280 S 2nd St", Geo: domain.Geo{Lat: 37.3302, Lon: -121.8885}, Category: domain.CategoryGarage, Capacity: intPtr(400), Available: intPtr(120)},
	}
	metrics := observability.NewMetricsForTesting()
	st := store.New(spots, discardLogger(), metrics, store.WithDriftStep(func() int { return 3 }))

	pub := kafkaadapter.NewPublisher(cfg, st, discardLogger(), metrics)
	t.Cleanup(func() { _ = pub.Close() })

	runCtx, stopPublisher := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- pub.Run(runCtx) }()

	// Wait for the publisher's watcher to subscribe before writing.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WatchersActive) == 1
	}, 10*time.Second, 50*time.Millisecond)

	_, err := st.UpdateAvailability("garage-a", 77)
	require.NoError(t, err)
	_, err = st.ReportFull("garage-b")
	require.NoError(t, err)
	require.Equal(t, 2, st.Drift())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testFeedTopic,
		GroupID:     fmt.Sprintf("test-feed-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]feedMessage, 0, 4)
	for len(received) < 4 {
		received = append(received, readFeed(ctx, t, consumer))
	}

	stopPublisher()
	require.NoError(t, <-errCh)

	// Writes arrive in order: report, full report, then one drift per spot.
	assert.Equal(t, "garage-a", received[0].Key)
	assert.Equal(t, "report", received[0].Headers["cause"])
	assert.Equal(t, "1", received[0].Headers["version"])

	assert.Equal(t, "garage-b", received[1].Key)
	assert.Equal(t, "full_report", received[1].Headers["cause"])
	assert.Equal(t, "2", received[1].Headers["version"])

	assert.Equal(t, "garage-a", received[2].Key)
	assert.Equal(t, "drift", received[2].Headers["cause"])
	assert.Equal(t, "garage-b", received[3].Key)
	assert.Equal(t, "drift", received[3].Headers["cause"])

	// The first message carries the full updated record.
	type spotSummary struct {
		ID        string
		Category  domain.Category
		Capacity  int
		Available int
	}
	expected := spotSummary{ID: "garage-a", Category: domain.CategoryGarage, Capacity: 650, Available: 77}
	got := received[0].Spot
	require.NotNil(t, got.Capacity)
	require.NotNil(t, got.Available)
	actual := spotSummary{ID: got.ID, Category: got.Category, Capacity: *got.Capacity, Available: *got.Available}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("feed payload mismatch (-want +got):\n%s", diff)
	}

	// Drift moved 77 up by the fixed step.
	require.NotNil(t, received[2].Spot.Available)
	assert.Equal(t, 80, *received[2].Spot.Available)

	// error counter stays clean on the happy path
	assert.Zero(t, testutil.ToFloat64(metrics.FeedErrors))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.FeedPublished))
}
