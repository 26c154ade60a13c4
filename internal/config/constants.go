package config

import "time"

const (
	envPort           = "PORT"
	envAdminToken     = "ADMIN_TOKEN"
	envPollInterval   = "POLL_INTERVAL"
	envFeedProvider   = "FEED_PROVIDER"
	envFeedBaseURL    = "NHL_API_BASE_URL"
	envFeedTimeout    = "NHL_API_TIMEOUT"
	envFeedAttempts   = "NHL_API_ATTEMPTS"
	envFeedBackoff    = "NHL_API_BACKOFF"
	envFeedRate       = "NHL_API_REQUESTS_PER_SECOND"
	envOTThreshold    = "OT_CHALLENGE_BUFFER_MINUTES"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
	envVersion        = "VERSION"
	envDiscordToken   = "DISCORD_TOKEN"
	envDiscordAppID   = "DISCORD_APP_ID"
	envDiscordGuild   = "DISCORD_COMMAND_GUILD_ID"
	envMaintainerChan = "MAINTAINER_CHANNEL_ID"
	envDebugChannels  = "DEBUG_CHANNEL_IDS"
	envSendRate       = "DISCORD_SENDS_PER_SECOND"
	envSendBurst      = "DISCORD_SEND_BURST"
	envDataDir        = "DATA_DIR"
	envTeamsFile      = "TEAMS_FILE"
	envAuditPath      = "AUDIT_DB_PATH"
	envRedisURL       = "REDIS_URL"
	envRedisStream    = "REDIS_STREAM"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort         = "4000"
	defaultServiceName  = "nhl-scoreboard-bot"
	defaultPollInterval = 10 * Duration(time.Second)
	defaultFeedProvider = "nhle"
	defaultFeedBaseURL  = "https://api-web.nhle.com/v1"
	defaultFeedTimeout  = 10 * Duration(time.Second)
	defaultFeedAttempts = 1
	defaultFeedBackoff  = 500 * Duration(time.Millisecond)
	defaultFeedRate     = 8
	defaultOTThreshold  = 2
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultSendRate     = 5
	defaultSendBurst    = 5
	defaultDataDir      = "data"
	defaultRedisStream  = "scoreboard.events"
	defaultMetricsPort  = "9090"
)
