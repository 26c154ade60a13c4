// Package otchallenge runs the overtime-winner prediction game: it accepts
// guesses while a game's OT window is open, resolves them into per-guild
// standings at rollover, and escalates feed inconsistencies to a maintainer.
package otchallenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// Feed supplies rosters for guess matching and final snapshots for resolution.
type Feed interface {
	FetchGame(ctx context.Context, gameID string) (games.Game, error)
	FetchRoster(ctx context.Context, gameID string) ([]players.Player, error)
}

// GuessStore persists guesses and standings.
type GuessStore interface {
	PutGuess(gameID, guildID, userID string, g state.Guess) (bool, error)
	GamesWithGuesses() []string
	DeleteGame(gameID string) error
	ApplyResult(gameID string, scorerID int) (int, error)
	Standings(guildID string) map[string]state.Tally
}

// Games reports what the reconciler currently tracks.
type Games interface {
	HasGame(gameID string) bool
	OTState(gameID string) state.OTState
}

// Registry answers whether a guild has registered a scoreboard channel.
type Registry interface {
	Lookup(guildID string) (string, bool)
}

// Escalator surfaces operational problems to a maintainer.
type Escalator interface {
	Escalate(ctx context.Context, msg string) error
}

// Coordinator owns guess intake and resolution.
type Coordinator struct {
	feed      Feed
	guesses   GuessStore
	games     Games
	registry  Registry
	escalator Escalator
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithEscalator routes inconsistencies to a maintainer channel.
func WithEscalator(e Escalator) Option {
	return func(c *Coordinator) { c.escalator = e }
}

// WithLogger sets the coordinator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records guess outcomes.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Coordinator) { c.metrics = recorder }
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(feed Feed, guesses GuessStore, tracked Games, registry Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		feed:     feed,
		guesses:  guesses,
		games:    tracked,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitGuess records userID's pick for the overtime winner of gameID.
// Expected rejections come back as a GuessResult; err is reserved for
// roster or storage failures.
func (c *Coordinator) SubmitGuess(ctx context.Context, gameID, guildID, userID, playerRef string) (GuessResult, error) {
	result, err := c.submit(ctx, gameID, guildID, userID, playerRef)
	switch {
	case err != nil:
		c.metrics.RecordGuess("error")
	case result.Accepted:
		c.metrics.RecordGuess("accepted")
	default:
		c.metrics.RecordGuess(string(result.Reason))
	}
	return result, err
}

func (c *Coordinator) submit(ctx context.Context, gameID, guildID, userID, playerRef string) (GuessResult, error) {
	if _, ok := c.registry.Lookup(guildID); !ok {
		return reject(ReasonNotRegistered), nil
	}
	if gameID == "" || !c.games.HasGame(gameID) {
		return reject(ReasonUnknownGame), nil
	}
	if c.games.OTState(gameID) != state.OTOpen {
		return reject(ReasonWindowClosed), nil
	}

	roster, err := c.feed.FetchRoster(ctx, gameID)
	if err != nil {
		return GuessResult{}, fmt.Errorf("fetch roster for %s: %w", gameID, err)
	}

	match := players.Match(roster, playerRef)
	switch match.Outcome {
	case players.NotFound:
		return reject(ReasonPlayerNotFound), nil
	case players.MultipleMatches:
		res := reject(ReasonMultipleMatches)
		res.Candidates = match.Candidates
		return res, nil
	}

	guess := state.Guess{PlayerID: match.Player.ID, PlayerName: match.Player.FullName()}
	replaced, err := c.guesses.PutGuess(gameID, guildID, userID, guess)
	if err != nil {
		return GuessResult{}, fmt.Errorf("store guess: %w", err)
	}
	logging.Info(logging.FromContext(ctx, c.logger), "ot guess recorded",
		logging.FieldGameID, gameID,
		logging.FieldGuildID, guildID,
		logging.FieldUserID, userID,
		"player_id", guess.PlayerID,
	)
	return GuessResult{Accepted: true, Replaced: replaced, Player: match.Player}, nil
}

// Standings returns guildID's leaderboard: most correct first, then fewest
// guesses, then user id.
func (c *Coordinator) Standings(guildID string) []Standing {
	tallies := c.guesses.Standings(guildID)
	out := make([]Standing, 0, len(tallies))
	for user, t := range tallies {
		out = append(out, Standing{UserID: user, Guesses: t.Guesses, Correct: t.Correct})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		if a.Guesses != b.Guesses {
			return a.Guesses < b.Guesses
		}
		return a.UserID < b.UserID
	})
	return out
}

// BeforeRollover resolves every outstanding game before the tracking date advances.
func (c *Coordinator) BeforeRollover(ctx context.Context, from, to string) error {
	_, _ = from, to
	return c.Resolve(ctx)
}

// Resolve scores every game with outstanding guesses. Games that did not end
// in overtime lose their guesses unscored. Inconsistent games keep their
// guesses and are escalated.
func (c *Coordinator) Resolve(ctx context.Context) error {
	var errs []error
	for _, gameID := range c.guesses.GamesWithGuesses() {
		if err := c.resolveGame(ctx, gameID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) resolveGame(ctx context.Context, gameID string) error {
	logger := logging.FromContext(ctx, c.logger).With(slog.String(logging.FieldGameID, gameID))

	g, err := c.feed.FetchGame(ctx, gameID)
	if err != nil {
		c.escalate(ctx, logger, fmt.Sprintf("OT challenge: could not fetch game %s for resolution: %v", gameID, err))
		return fmt.Errorf("fetch game %s: %w", gameID, err)
	}
	if g.Phase != games.PhaseFinal {
		c.escalate(ctx, logger, fmt.Sprintf("OT challenge: game %s is not final at rollover (phase %s); guesses kept", gameID, g.Phase))
		return nil
	}
	if g.Period.Type != games.PeriodOvertime {
		logging.Info(logger, "game did not end in overtime; discarding guesses", "period", g.Period.Ordinal())
		return c.guesses.DeleteGame(gameID)
	}

	goals := g.OvertimeGoals()
	if len(goals) != 1 {
		c.escalate(ctx, logger, fmt.Sprintf("OT challenge: game %s ended in overtime with %d overtime goals; guesses kept", gameID, len(goals)))
		return nil
	}

	scored, err := c.guesses.ApplyResult(gameID, goals[0].ScorerID)
	if err != nil {
		return fmt.Errorf("apply result for %s: %w", gameID, err)
	}
	logging.Info(logger, "ot challenge resolved",
		"scorer_id", goals[0].ScorerID,
		logging.FieldCount, scored,
	)
	return nil
}

func (c *Coordinator) escalate(ctx context.Context, logger *slog.Logger, msg string) {
	logging.Error(logger, msg, nil)
	if c.escalator == nil {
		return
	}
	if err := c.escalator.Escalate(ctx, msg); err != nil {
		logging.Error(logger, "escalation failed", err)
	}
}
