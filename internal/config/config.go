package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// UpdateInterval is the period of the availability drift cycle.
	UpdateInterval time.Duration

	// CatalogPath points at a catalog YAML overriding the embedded seed.
	// Empty means the embedded catalog.
	CatalogPath string

	// Availability change feed configuration.
	KafkaBrokers   []string
	KafkaFeedTopic string
	FeedEnabled    bool

	// CORSOrigins is the allow-list for browser clients; "*" allows all.
	CORSOrigins []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	updateInterval, err := parseDurationEnv("UPDATE_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	// The feed follows the brokers (set brokers, get the feed) unless
	// FEED_ENABLED overrides it explicitly.
	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	feedEnabled := len(brokers) > 0
	if v := os.Getenv("FEED_ENABLED"); v != "" {
		feedEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		UpdateInterval:  updateInterval,
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		KafkaBrokers:    brokers,
		KafkaFeedTopic:  envOrDefault("KAFKA_FEED_TOPIC", "parking-availability-changes"),
		FeedEnabled:     feedEnabled,
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "*")),
	}

	if cfg.FeedEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("FEED_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.FeedEnabled && cfg.KafkaFeedTopic == "" {
		return nil, errors.New("KAFKA_FEED_TOPIC is required when the feed is enabled")
	}
	if len(cfg.CORSOrigins) == 0 {
		return nil, errors.New("CORS_ORIGINS must name at least one origin")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDurationEnv parses a positive duration from the environment,
// falling back when the variable is unset.
func parseDurationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
