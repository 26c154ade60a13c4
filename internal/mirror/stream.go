// Package mirror publishes scoreboard changes to a Redis stream so other
// services can follow the bot's output without talking to Discord.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/notify"
)

const defaultMaxLen = 10000

// adder is the slice of *redis.Client the mirror uses.
type adder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Stream is a notify.Mirror backed by XADD.
type Stream struct {
	client adder
	stream string
	maxLen int64
}

// NewStream wraps an existing client.
func NewStream(client adder, stream string) *Stream {
	return &Stream{client: client, stream: stream, maxLen: defaultMaxLen}
}

// Dial connects to url and verifies the connection with PING. The returned
// close func releases the client.
func Dial(ctx context.Context, url, stream string) (*Stream, func() error, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewStream(client, stream), client.Close, nil
}

// Mirror appends ch to the stream, trimming it to roughly maxLen entries.
func (s *Stream) Mirror(ctx context.Context, ch notify.Change) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": ch.GameID,
			"key":     ch.Key,
			"action":  ch.Action,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
