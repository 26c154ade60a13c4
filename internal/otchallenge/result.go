package otchallenge

import (
	"errors"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
)

// RejectReason tags why a guess was not accepted.
type RejectReason string

const (
	ReasonNotRegistered   RejectReason = "not_registered"
	ReasonUnknownGame     RejectReason = "unknown_game"
	ReasonWindowClosed    RejectReason = "window_closed"
	ReasonPlayerNotFound  RejectReason = "player_not_found"
	ReasonMultipleMatches RejectReason = "multiple_matches"
)

var (
	ErrNotRegistered   = errors.New("guild has no scoreboard channel")
	ErrUnknownGame     = errors.New("game is not being tracked")
	ErrWindowClosed    = errors.New("ot challenge window is not open")
	ErrPlayerNotFound  = errors.New("player not found on roster")
	ErrMultipleMatches = errors.New("player reference is ambiguous")
)

// GuessResult is the tagged outcome of a submission.
type GuessResult struct {
	Accepted   bool
	Replaced   bool
	Reason     RejectReason
	Player     players.Player
	Candidates []players.Player
}

func reject(reason RejectReason) GuessResult {
	return GuessResult{Reason: reason}
}

// Err maps a rejection to its sentinel error, or nil when accepted.
func (r GuessResult) Err() error {
	if r.Accepted {
		return nil
	}
	switch r.Reason {
	case ReasonNotRegistered:
		return ErrNotRegistered
	case ReasonUnknownGame:
		return ErrUnknownGame
	case ReasonWindowClosed:
		return ErrWindowClosed
	case ReasonPlayerNotFound:
		return ErrPlayerNotFound
	case ReasonMultipleMatches:
		return ErrMultipleMatches
	}
	return nil
}

// Standing is one row of a guild leaderboard.
type Standing struct {
	UserID  string `json:"userId"`
	Guesses int    `json:"guesses"`
	Correct int    `json:"correct"`
}
