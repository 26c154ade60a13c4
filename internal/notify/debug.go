package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DebugMirror copies every change into debug channels. It remembers its own
// message ids in memory so later changes edit the copy rather than repost.
type DebugMirror struct {
	poster   Poster
	channels []string

	mu       sync.Mutex
	messages map[string]map[string]string
}

// NewDebugMirror returns nil when no channels are configured.
func NewDebugMirror(poster Poster, channels []string) *DebugMirror {
	if poster == nil || len(channels) == 0 {
		return nil
	}
	return &DebugMirror{
		poster:   poster,
		channels: append([]string(nil), channels...),
		messages: make(map[string]map[string]string),
	}
}

// Mirror posts or edits the debug copy of ch.
func (d *DebugMirror) Mirror(ctx context.Context, ch Change) error {
	if d == nil {
		return nil
	}
	content := ch.Content
	content.Title = fmt.Sprintf("[%s %s] %s", ch.GameID, ch.Key, content.Title)
	id := ch.GameID + "/" + ch.Key

	d.mu.Lock()
	defer d.mu.Unlock()

	known := d.messages[id]
	if ch.Action == ActionRollover {
		known = nil
	}
	if known == nil {
		known = make(map[string]string)
	}

	var errs []error
	for _, channel := range d.channels {
		if msg, ok := known[channel]; ok {
			if err := d.poster.Edit(ctx, channel, msg, content); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		msg, err := d.poster.Send(ctx, channel, content)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		known[channel] = msg
	}
	if ch.Action == ActionRollover {
		d.messages = make(map[string]map[string]string)
	} else {
		d.messages[id] = known
	}
	return errors.Join(errs...)
}

// Reset forgets remembered debug messages. A rollover change does the same.
func (d *DebugMirror) Reset() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.messages = make(map[string]map[string]string)
	d.mu.Unlock()
}
