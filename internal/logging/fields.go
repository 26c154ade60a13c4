package logging

import "log/slog"

// Structured log field keys shared across the bot so logs stay searchable.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldFeed       = "feed"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDate       = "date"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldCycleID    = "cycle_id"
	FieldGameID     = "game_id"
	FieldEventKey   = "event_key"
	FieldChannelID  = "channel_id"
	FieldGuildID    = "guild_id"
	FieldUserID     = "user_id"
	FieldCommand    = "command"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
