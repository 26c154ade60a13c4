package players

import (
	"strconv"
	"strings"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/textnorm"
)

// Player is a rostered skater or goalie for a single game.
type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	TeamCode  string `json:"teamCode"`
	Sweater   int    `json:"sweater,omitempty"`
}

// FullName joins first and last name.
func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// MatchOutcome tags the result of a name lookup.
type MatchOutcome int

const (
	NotFound MatchOutcome = iota
	Found
	MultipleMatches
)

func (o MatchOutcome) String() string {
	switch o {
	case Found:
		return "found"
	case MultipleMatches:
		return "multiple_matches"
	default:
		return "not_found"
	}
}

// MatchResult is the tagged lookup result. Player is set only for Found;
// Candidates only for MultipleMatches.
type MatchResult struct {
	Outcome    MatchOutcome
	Player     Player
	Candidates []Player
}

// Match resolves a user-typed reference against a roster. A numeric query
// matches a player id; otherwise names are compared after folding, trying
// full name, then last name, then substring.
func Match(roster []Player, query string) MatchResult {
	q := textnorm.Fold(query)
	if q == "" {
		return MatchResult{Outcome: NotFound}
	}

	if id, err := strconv.Atoi(q); err == nil {
		for _, p := range roster {
			if p.ID == id {
				return MatchResult{Outcome: Found, Player: p}
			}
		}
		return MatchResult{Outcome: NotFound}
	}

	passes := []func(Player) bool{
		func(p Player) bool { return textnorm.Fold(p.FullName()) == q },
		func(p Player) bool { return textnorm.Fold(p.LastName) == q },
		func(p Player) bool { return strings.Contains(textnorm.Fold(p.FullName()), q) },
	}
	for _, pass := range passes {
		var hits []Player
		for _, p := range roster {
			if pass(p) {
				hits = append(hits, p)
			}
		}
		switch len(hits) {
		case 0:
			continue
		case 1:
			return MatchResult{Outcome: Found, Player: hits[0]}
		default:
			return MatchResult{Outcome: MultipleMatches, Candidates: hits}
		}
	}
	return MatchResult{Outcome: NotFound}
}
