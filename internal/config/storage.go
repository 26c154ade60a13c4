package config

import "path/filepath"

// StorageConfig locates persisted documents and optional sinks.
type StorageConfig struct {
	DataDir     string
	TeamsFile   string // empty uses the embedded team table
	AuditDBPath string // empty disables the audit log
	RedisURL    string // empty disables the stream mirror
	RedisStream string
}

// EventsPath is the reconciliation state document.
func (s StorageConfig) EventsPath() string { return filepath.Join(s.DataDir, "events.json") }

// ChannelsPath is the guild to channel registry document.
func (s StorageConfig) ChannelsPath() string { return filepath.Join(s.DataDir, "channels.json") }

// GuessesPath is the OT challenge guess and standings document.
func (s StorageConfig) GuessesPath() string { return filepath.Join(s.DataDir, "otchallenge.json") }

func loadStorage() StorageConfig {
	return StorageConfig{
		DataDir:     envOrDefault(envDataDir, defaultDataDir),
		TeamsFile:   envOrDefault(envTeamsFile, ""),
		AuditDBPath: envOrDefault(envAuditPath, ""),
		RedisURL:    envOrDefault(envRedisURL, ""),
		RedisStream: envOrDefault(envRedisStream, defaultRedisStream),
	}
}
