package config

import (
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the bot.
type Config struct {
	Port         string
	AdminToken   string // empty disables the admin HTTP endpoints
	PollInterval Duration
	Version      string
	Log          LogConfig
	Feed         FeedConfig
	OTChallenge  OTChallengeConfig
	Discord      DiscordConfig
	Storage      StorageConfig
	Metrics      MetricsConfig
}

// LogConfig controls slog handler construction.
type LogConfig struct {
	Level  string
	Format string
}

// OTChallengeConfig tunes the overtime prediction window.
type OTChallengeConfig struct {
	// ThresholdMinutes opens the window when a tied third period has fewer
	// than this many minutes remaining.
	ThresholdMinutes int
}

// Load reads configuration from a .env file (when present) and environment
// variables, falling back to defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		AdminToken:   envOrDefault(envAdminToken, ""),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Version:      envOrDefault(envVersion, ""),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
		Feed: loadFeed(),
		OTChallenge: OTChallengeConfig{
			ThresholdMinutes: intEnvOrDefault(envOTThreshold, defaultOTThreshold),
		},
		Discord: loadDiscord(),
		Storage: loadStorage(),
		Metrics: loadMetrics(),
	}
}
