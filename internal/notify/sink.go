package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// Sink posts new events, edits changed ones and ignores unchanged ones.
type Sink struct {
	store   Store
	dests   Destinations
	poster  Poster
	mirrors []Mirror
	auditor Auditor
	metrics *metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures optional Sink collaborators.
type Option func(*Sink)

// WithMirrors adds shadow destinations.
func WithMirrors(mirrors ...Mirror) Option {
	return func(s *Sink) {
		for _, m := range mirrors {
			if m != nil {
				s.mirrors = append(s.mirrors, m)
			}
		}
	}
}

// WithAuditor records every change.
func WithAuditor(a Auditor) Option {
	return func(s *Sink) { s.auditor = a }
}

// WithMetrics counts posts, edits and skips.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Sink) { s.metrics = rec }
}

// WithLogger sets the fallback logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) { s.logger = logger }
}

// NewSink builds a sink over the given store, destinations and transport.
func NewSink(store Store, dests Destinations, poster Poster, opts ...Option) *Sink {
	s := &Sink{store: store, dests: dests, poster: poster, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func unchanged(prev, next state.EventRecord) bool {
	return prev.Content.Equal(next.Content) &&
		prev.ScoreLine == next.ScoreLine &&
		prev.Retracted == next.Retracted
}

// PostOrUpdate makes the chat reflect rec for (gameID, key). Records whose
// content matches what was last persisted are a no-op. Existing messages
// are edited in place, and any registered destination still missing a
// message for the key is sent one. The store is written before returning.
func (s *Sink) PostOrUpdate(ctx context.Context, gameID, key string, rec state.EventRecord) error {
	prev, exists := s.store.GetEvent(gameID, key)
	var missing []string
	if exists {
		missing = s.missingDestinations(prev.Messages)
	}
	same := exists && unchanged(prev, rec)
	if same && len(missing) == 0 {
		s.metrics.RecordMessage(metrics.ActionSkipped)
		return nil
	}

	logger := logging.FromContext(ctx, s.logger)
	display := Display(rec.Content)
	next := rec.Clone()

	var action string
	if exists && len(prev.Messages) > 0 {
		action = metrics.ActionEdited
		next.Messages = make(map[string]string, len(prev.Messages)+len(missing))
		for ch, msg := range prev.Messages {
			next.Messages[ch] = msg
		}
		if !same {
			var errs []error
			for ch, msg := range prev.Messages {
				if err := s.poster.Edit(ctx, ch, msg, display); err != nil {
					errs = append(errs, fmt.Errorf("edit %s/%s: %w", ch, msg, err))
				}
			}
			// Leave the store untouched so the next tick retries the edit.
			if err := errors.Join(errs...); err != nil {
				return err
			}
		}
		// Backfill failures are logged and retried on a later tick.
		sent, _ := s.sendTo(ctx, logger, gameID, key, missing, display, next.Messages)
		if same {
			if sent == 0 {
				return nil
			}
			action = metrics.ActionPosted
		}
	} else {
		action = metrics.ActionPosted
		dests := s.dests.Destinations()
		next.Messages = make(map[string]string, len(dests))
		sent, errs := s.sendTo(ctx, logger, gameID, key, dests, display, next.Messages)
		if len(dests) > 0 && sent == 0 {
			return errors.Join(errs...)
		}
	}

	if err := s.store.PutEvent(gameID, key, next); err != nil {
		return err
	}
	s.metrics.RecordMessage(action)
	logging.Info(logger, "event "+action,
		logging.FieldGameID, gameID,
		logging.FieldEventKey, key,
		logging.FieldCount, len(next.Messages),
		"title", rec.Title,
	)

	s.fanOut(ctx, Change{GameID: gameID, Key: key, Action: action, Content: display, At: s.now().UTC()})
	return nil
}

// missingDestinations lists registered destinations with no message in msgs.
func (s *Sink) missingDestinations(msgs map[string]string) []string {
	var missing []string
	for _, ch := range s.dests.Destinations() {
		if _, ok := msgs[ch]; !ok {
			missing = append(missing, ch)
		}
	}
	return missing
}

// sendTo sends display to each channel, recording message ids in msgs.
// Failed channels are logged and left out of msgs for a later tick.
func (s *Sink) sendTo(ctx context.Context, logger *slog.Logger, gameID, key string, channels []string, display state.Content, msgs map[string]string) (int, []error) {
	sent := 0
	var errs []error
	for _, ch := range channels {
		id, err := s.poster.Send(ctx, ch, display)
		if err != nil {
			errs = append(errs, fmt.Errorf("send %s: %w", ch, err))
			logging.Warn(logger, "event send failed",
				logging.FieldGameID, gameID,
				logging.FieldEventKey, key,
				logging.FieldChannelID, ch,
				"error", err,
			)
			continue
		}
		msgs[ch] = id
		sent++
	}
	return sent, errs
}

func (s *Sink) fanOut(ctx context.Context, ch Change) {
	logger := logging.FromContext(ctx, s.logger)
	for _, m := range s.mirrors {
		if err := m.Mirror(ctx, ch); err != nil {
			logging.Warn(logger, "mirror failed", logging.FieldGameID, ch.GameID, logging.FieldEventKey, ch.Key, "error", err)
			continue
		}
		s.metrics.RecordMessage(metrics.ActionMirror)
	}
	if s.auditor != nil {
		if err := s.auditor.Record(ctx, ch); err != nil {
			logging.Warn(logger, "audit failed", logging.FieldGameID, ch.GameID, logging.FieldEventKey, ch.Key, "error", err)
		}
	}
}

// OpenThreads starts a discussion thread on every message of (gameID, key)
// that does not have one yet.
func (s *Sink) OpenThreads(ctx context.Context, gameID, key, name string) error {
	rec, ok := s.store.GetEvent(gameID, key)
	if !ok {
		return fmt.Errorf("notify: no %s event for game %s", key, gameID)
	}
	existing := s.store.Threads(gameID)
	var errs []error
	for ch, msg := range rec.Messages {
		if _, done := existing[ch]; done {
			continue
		}
		threadID, err := s.poster.StartThread(ctx, ch, msg, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("start thread in %s: %w", ch, err))
			continue
		}
		if err := s.store.SetThread(gameID, ch, threadID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LockThreads locks or unlocks every thread opened for gameID.
func (s *Sink) LockThreads(ctx context.Context, gameID string, locked bool) error {
	var errs []error
	for _, th := range s.store.Threads(gameID) {
		if err := s.poster.SetThreadLocked(ctx, th, locked); err != nil {
			errs = append(errs, fmt.Errorf("lock thread %s: %w", th, err))
		}
	}
	return errors.Join(errs...)
}

// ArchiveThreads locks every thread of the tracking date, ahead of rollover.
func (s *Sink) ArchiveThreads(ctx context.Context) error {
	var errs []error
	for _, id := range s.store.GameIDs() {
		if err := s.LockThreads(ctx, id, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRollover audits a tracking date change.
func (s *Sink) RecordRollover(ctx context.Context, from, to string) {
	s.fanOut(ctx, Change{
		Key:     ActionRollover,
		Action:  ActionRollover,
		Content: state.Content{Title: fmt.Sprintf("Tracking date %s -> %s", from, to)},
		At:      s.now().UTC(),
	})
}

// BeforeRollover archives the day's threads and announces the date change.
func (s *Sink) BeforeRollover(ctx context.Context, from, to string) error {
	err := s.ArchiveThreads(ctx)
	s.RecordRollover(ctx, from, to)
	return err
}
