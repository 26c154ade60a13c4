// Package scoreboard derives postable events from game snapshots and
// reconciles them against what has already been posted.
package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/teams"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/feed"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// jitterWindow is how far (in seconds) a goal's reported time may drift
// between polls and still be treated as the same goal.
const jitterWindow = 4

// EventStore is the slice of the persisted state the reconciler reads.
type EventStore interface {
	EnsureGame(gameID, away, home string) error
	GetEvent(gameID, key string) (state.EventRecord, bool)
	RenameEvent(gameID, from, to string) error
	EventKeys(gameID string) []string
	OTState(gameID string) state.OTState
	SetOTState(gameID string, st state.OTState) error
}

// Sink posts or edits event messages and manages OT challenge threads.
type Sink interface {
	PostOrUpdate(ctx context.Context, gameID, key string, rec state.EventRecord) error
	OpenThreads(ctx context.Context, gameID, key, name string) error
	LockThreads(ctx context.Context, gameID string, locked bool) error
}

// Options tunes a Reconciler.
type Options struct {
	// ChallengeThreshold opens the OT challenge this late in a tied third.
	ChallengeThreshold time.Duration
	Logger             *slog.Logger
}

// Reconciler diffs each game snapshot against persisted events.
type Reconciler struct {
	store     EventStore
	sink      Sink
	recaps    feed.RecapSource
	render    *Renderer
	threshold time.Duration
	logger    *slog.Logger
}

// NewReconciler wires a reconciler. recaps may be nil, in which case final
// posts never gain a recap link.
func NewReconciler(store EventStore, sink Sink, recaps feed.RecapSource, registry *teams.Registry, opts Options) *Reconciler {
	threshold := opts.ChallengeThreshold
	if threshold <= 0 {
		threshold = DefaultChallengeThreshold
	}
	return &Reconciler{
		store:     store,
		sink:      sink,
		recaps:    recaps,
		render:    NewRenderer(registry),
		threshold: threshold,
		logger:    opts.Logger,
	}
}

// Reconcile brings the posted messages for g up to date. It is safe to call
// every tick: unchanged events cause no chat traffic.
func (r *Reconciler) Reconcile(ctx context.Context, g games.Game) error {
	if g.Phase == games.PhaseScheduled {
		return nil
	}
	if err := r.store.EnsureGame(g.ID, g.Away.Code, g.Home.Code); err != nil {
		return err
	}

	series := SeriesStatus(g)
	steps := []func(context.Context, games.Game, string) error{
		r.reconcileStart,
		r.reconcileGoals,
		r.reconcileDisallowed,
		r.reconcileShootout,
		r.reconcileChallenge,
		r.reconcileFinal,
	}
	for _, step := range steps {
		if err := step(ctx, g, series); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) post(ctx context.Context, gameID, key string, rec state.EventRecord) error {
	if err := r.sink.PostOrUpdate(ctx, gameID, key, rec); err != nil {
		return fmt.Errorf("post %s/%s: %w", gameID, key, err)
	}
	return nil
}

func (r *Reconciler) reconcileStart(ctx context.Context, g games.Game, series string) error {
	if !g.Phase.InProgress() {
		return nil
	}
	return r.post(ctx, g.ID, state.KeyStart, state.EventRecord{
		Content: state.Content{Title: r.render.StartTitle(g), Description: series},
	})
}

func goalKey(goal games.Goal) string {
	return strconv.Itoa(goal.TimeKey())
}

func (r *Reconciler) reconcileGoals(ctx context.Context, g games.Game, series string) error {
	current := make(map[string]struct{}, len(g.Goals))
	for _, goal := range g.Goals {
		current[goalKey(goal)] = struct{}{}
	}

	for _, goal := range g.Goals {
		if goal.Period.Type == games.PeriodShootout {
			continue
		}
		key := goalKey(goal)
		title, scoreLine := r.render.GoalTitle(g, goal)

		existing, ok := r.store.GetEvent(g.ID, key)
		if !ok {
			if from, found := r.findDrifted(g.ID, goal.TimeKey(), scoreLine, current); found {
				if err := r.store.RenameEvent(g.ID, from, key); err != nil {
					return err
				}
				logging.Info(r.log(ctx), "goal key drifted",
					logging.FieldGameID, g.ID,
					"from", from,
					"to", key,
				)
				existing, ok = r.store.GetEvent(g.ID, key)
			}
		}

		link := goal.HighlightClip
		if link == "" && ok && !existing.Retracted {
			link = existing.Link
		}
		rec := state.EventRecord{
			Content:   state.Content{Title: title, Description: series, Link: link},
			ScoreLine: scoreLine,
		}
		if err := r.post(ctx, g.ID, key, rec); err != nil {
			return err
		}
	}
	return nil
}

// findDrifted looks for an existing goal key within the jitter window that
// was rendered with the same score line and is not a goal in this snapshot.
// Retracted records are never reused for a different goal.
func (r *Reconciler) findDrifted(gameID string, timeKey int, scoreLine string, current map[string]struct{}) (string, bool) {
	for d := 1; d <= jitterWindow; d++ {
		for _, cand := range []int{timeKey - d, timeKey + d} {
			key := strconv.Itoa(cand)
			if _, live := current[key]; live {
				continue
			}
			rec, ok := r.store.GetEvent(gameID, key)
			if ok && !rec.Retracted && rec.ScoreLine == scoreLine {
				return key, true
			}
		}
	}
	return "", false
}

func (r *Reconciler) reconcileDisallowed(ctx context.Context, g games.Game, _ string) error {
	// An empty play list is a feed glitch, and goals after the final are settled.
	if g.PlayCount == 0 {
		return nil
	}
	if _, ended := r.store.GetEvent(g.ID, state.KeyEnd); ended {
		return nil
	}

	current := make(map[string]struct{}, len(g.Goals))
	for _, goal := range g.Goals {
		current[goalKey(goal)] = struct{}{}
	}

	for _, key := range r.store.EventKeys(g.ID) {
		if _, err := strconv.Atoi(key); err != nil {
			continue
		}
		if _, live := current[key]; live {
			continue
		}
		rec, ok := r.store.GetEvent(g.ID, key)
		if !ok || rec.Retracted {
			continue
		}
		retracted := state.EventRecord{
			Content:   state.Content{Title: Strike(rec.Title), Description: rec.Description},
			ScoreLine: rec.ScoreLine,
			Retracted: true,
		}
		if err := r.post(ctx, g.ID, key, retracted); err != nil {
			return err
		}
		logging.Info(r.log(ctx), "goal disallowed", logging.FieldGameID, g.ID, logging.FieldEventKey, key)
	}
	return nil
}

func (r *Reconciler) reconcileShootout(ctx context.Context, g games.Game, series string) error {
	if len(g.Shootout) == 0 {
		return nil
	}
	content := r.render.ShootoutContent(g)
	content.Description = series
	return r.post(ctx, g.ID, state.KeyShootout, state.EventRecord{Content: content})
}

func (r *Reconciler) reconcileChallenge(ctx context.Context, g games.Game, series string) error {
	open := ChallengeWindowOpen(g, r.threshold)
	prev := r.store.OTState(g.ID)
	if prev == state.OTAbsent && !open {
		return nil
	}

	rec := state.EventRecord{Content: state.Content{Title: r.render.OTTitle(g, open), Description: series}}
	if err := r.post(ctx, g.ID, state.KeyOT, rec); err != nil {
		return err
	}

	next := state.OTClosed
	if open {
		next = state.OTOpen
	}
	if next == prev {
		return nil
	}

	var err error
	switch {
	case prev == state.OTAbsent:
		err = r.sink.OpenThreads(ctx, g.ID, state.KeyOT, ThreadName(g))
	case next == state.OTClosed:
		err = r.sink.LockThreads(ctx, g.ID, true)
	default:
		err = r.sink.LockThreads(ctx, g.ID, false)
	}
	if err != nil {
		// Thread upkeep is best effort; the window state still advances.
		logging.Warn(r.log(ctx), "ot challenge thread update failed", logging.FieldGameID, g.ID, "error", err)
	}

	logging.Info(r.log(ctx), "ot challenge window changed",
		logging.FieldGameID, g.ID,
		"from", string(prev),
		"to", string(next),
	)
	return r.store.SetOTState(g.ID, next)
}

func (r *Reconciler) reconcileFinal(ctx context.Context, g games.Game, series string) error {
	if g.Phase != games.PhaseFinal {
		return nil
	}
	title, ok := r.render.FinalTitle(g)
	if !ok {
		logging.Debug(r.log(ctx), "final deferred until score is decided", logging.FieldGameID, g.ID)
		return nil
	}

	existing, _ := r.store.GetEvent(g.ID, state.KeyEnd)
	link := existing.Link
	if link == "" {
		link = r.fetchRecap(ctx, g.ID)
	}
	return r.post(ctx, g.ID, state.KeyEnd, state.EventRecord{
		Content: state.Content{Title: title, Description: series, Link: link},
	})
}

func (r *Reconciler) fetchRecap(ctx context.Context, gameID string) string {
	if r.recaps == nil {
		return ""
	}
	link, err := r.recaps.FetchRecapLink(ctx, gameID)
	if err != nil {
		if !errors.Is(err, feed.ErrNotFound) {
			logging.Warn(r.log(ctx), "recap fetch failed", logging.FieldGameID, gameID, "error", err)
		}
		return ""
	}
	return link
}

func (r *Reconciler) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, r.logger)
}
