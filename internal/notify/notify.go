// Package notify delivers rendered events to chat destinations and keeps
// the one-message-per-channel bookkeeping for every event key.
package notify

import (
	"context"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// CameraMarker is appended to titles of events that carry a clip.
const CameraMarker = "🎥"

// ActionRollover marks the change emitted when the tracking date moves.
const ActionRollover = "rollover"

// Poster is the chat transport.
type Poster interface {
	Send(ctx context.Context, channelID string, c state.Content) (messageID string, err error)
	Edit(ctx context.Context, channelID, messageID string, c state.Content) error
	StartThread(ctx context.Context, channelID, messageID, name string) (threadID string, err error)
	SetThreadLocked(ctx context.Context, threadID string, locked bool) error
}

// Destinations lists the channels new events are posted to.
type Destinations interface {
	Destinations() []string
}

// Store is the persisted event state the sink writes through to.
type Store interface {
	GetEvent(gameID, key string) (state.EventRecord, bool)
	PutEvent(gameID, key string, rec state.EventRecord) error
	GameIDs() []string
	Threads(gameID string) map[string]string
	SetThread(gameID, channelID, threadID string) error
}

// Change describes one delivered event for shadow destinations.
type Change struct {
	GameID  string        `json:"gameId"`
	Key     string        `json:"key"`
	Action  string        `json:"action"`
	Content state.Content `json:"content"`
	At      time.Time     `json:"at"`
}

// Mirror receives a copy of every change. Mirrors never affect the
// primary message bookkeeping.
type Mirror interface {
	Mirror(ctx context.Context, ch Change) error
}

// Auditor appends changes to a durable log.
type Auditor interface {
	Record(ctx context.Context, ch Change) error
}

// Display returns the content as shown in chat: titles of events with a
// link get the camera marker.
func Display(c state.Content) state.Content {
	if c.Link != "" {
		c.Title += " " + CameraMarker
	}
	return c
}
