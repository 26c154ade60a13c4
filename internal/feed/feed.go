// Package feed fetches and normalizes the NHL web API.
package feed

import (
	"context"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
)

// ScoreboardSource lists the games for the feed's current focus date.
type ScoreboardSource interface {
	FetchScoreboard(ctx context.Context) (games.Scoreboard, error)
}

// GameSource returns a full snapshot (clock, goals, shootout) for one game.
type GameSource interface {
	FetchGame(ctx context.Context, gameID string) (games.Game, error)
}

// RecapSource returns the game recap video link, or "" when not yet published.
type RecapSource interface {
	FetchRecapLink(ctx context.Context, gameID string) (string, error)
}

// RosterSource returns the players dressed for a game.
type RosterSource interface {
	FetchRoster(ctx context.Context, gameID string) ([]players.Player, error)
}

// Feed combines all feed capabilities.
type Feed interface {
	ScoreboardSource
	GameSource
	RecapSource
	RosterSource
}
