package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBrokers = "broker1:9092,broker2:9092"
	testTopic   = "parking-feed-test"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.UpdateInterval)
	assert.Empty(t, cfg.CatalogPath)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "parking-availability-changes", cfg.KafkaFeedTopic)
	assert.False(t, cfg.FeedEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("UPDATE_INTERVAL", "2m")
	t.Setenv("CATALOG_PATH", "/etc/lotcation/catalog.yaml")
	t.Setenv("KAFKA_BROKERS", testBrokers)
	t.Setenv("KAFKA_FEED_TOPIC", testTopic)
	t.Setenv("CORS_ORIGINS", "https://lotcation.app, https://staging.lotcation.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Minute, cfg.UpdateInterval)
	assert.Equal(t, "/etc/lotcation/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, testTopic, cfg.KafkaFeedTopic)
	assert.True(t, cfg.FeedEnabled)
	assert.Equal(t, []string{"https://lotcation.app", "https://staging.lotcation.app"}, cfg.CORSOrigins)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidUpdateInterval(t *testing.T) {
	t.Setenv("UPDATE_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPDATE_INTERVAL")
}

func TestLoad_ZeroUpdateInterval(t *testing.T) {
	t.Setenv("UPDATE_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPDATE_INTERVAL")
}

func TestLoad_FeedEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("FEED_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_BrokersImplyFeedEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBrokers)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FeedEnabled)
}

func TestLoad_FeedExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBrokers)
	t.Setenv("FEED_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.FeedEnabled)
}
