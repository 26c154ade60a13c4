package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval %s, got %s", defaultPollInterval, cfg.PollInterval)
	}
	if cfg.Feed.Provider != defaultFeedProvider {
		t.Fatalf("expected default feed provider %s, got %s", defaultFeedProvider, cfg.Feed.Provider)
	}
	if cfg.Feed.BaseURL != defaultFeedBaseURL {
		t.Fatalf("expected default feed base url %s, got %s", defaultFeedBaseURL, cfg.Feed.BaseURL)
	}
	if cfg.Feed.MaxAttempts != 1 {
		t.Fatalf("expected a single feed attempt by default, got %d", cfg.Feed.MaxAttempts)
	}
	if cfg.Feed.RequestsPerSecond != defaultFeedRate {
		t.Fatalf("expected feed rate %d, got %d", defaultFeedRate, cfg.Feed.RequestsPerSecond)
	}
	if cfg.OTChallenge.ThresholdMinutes != 2 {
		t.Fatalf("expected 2 minute OT threshold, got %d", cfg.OTChallenge.ThresholdMinutes)
	}
	if cfg.AdminToken != "" {
		t.Fatalf("expected admin endpoints disabled by default")
	}
	if cfg.Discord.Token != "" {
		t.Fatalf("expected empty discord token by default, got %s", cfg.Discord.Token)
	}
	if cfg.Storage.AuditDBPath != "" || cfg.Storage.RedisURL != "" {
		t.Fatalf("expected optional sinks disabled by default, got %+v", cfg.Storage)
	}
	if cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("expected service name %s, got %s", defaultServiceName, cfg.Metrics.ServiceName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envPollInterval, "45s")
	t.Setenv(envFeedProvider, "fixture")
	t.Setenv(envFeedBaseURL, "http://example.com/v1")
	t.Setenv(envOTThreshold, "5")
	t.Setenv(envDiscordToken, "secret-token")
	t.Setenv(envDebugChannels, "111,222")
	t.Setenv(envDataDir, "/tmp/bot")
	t.Setenv(envRedisURL, "redis://localhost:6379/0")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("expected poll interval 45s, got %s", cfg.PollInterval)
	}
	if cfg.Feed.Provider != "fixture" {
		t.Fatalf("expected provider fixture, got %s", cfg.Feed.Provider)
	}
	if cfg.Feed.BaseURL != "http://example.com/v1" {
		t.Fatalf("expected base url override, got %s", cfg.Feed.BaseURL)
	}
	if cfg.OTChallenge.ThresholdMinutes != 5 {
		t.Fatalf("expected threshold 5, got %d", cfg.OTChallenge.ThresholdMinutes)
	}
	if cfg.Discord.Token != "secret-token" {
		t.Fatalf("expected token override, got %s", cfg.Discord.Token)
	}
	if len(cfg.Discord.DebugChannels) != 2 || cfg.Discord.DebugChannels[1] != "222" {
		t.Fatalf("unexpected debug channels %v", cfg.Discord.DebugChannels)
	}
	if got := cfg.Storage.EventsPath(); got != filepath.Join("/tmp/bot", "events.json") {
		t.Fatalf("unexpected events path %s", got)
	}
	if cfg.Storage.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("expected redis url override, got %s", cfg.Storage.RedisURL)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "not-a-duration")

	cfg := Load()
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on invalid value, got %s", cfg.PollInterval)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "0s")

	cfg := Load()
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on non-positive value, got %s", cfg.PollInterval)
	}
}
