package scoreboard

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/timeutil"
)

const scheduleOK = "OK"

// ScoreText summarises one game for the score commands.
func (r *Renderer) ScoreText(g games.Game) string {
	away, home := r.teams.Label(g.Away.Code), r.teams.Label(g.Home.Code)

	if g.ScheduleState != "" && g.ScheduleState != scheduleOK {
		return fmt.Sprintf("%s at %s %s", away, home, g.ScheduleState)
	}

	switch {
	case g.Phase == games.PhaseFinal:
		return fmt.Sprintf("Final: %s %d, %s %d", away, g.Away.Score, home, g.Home.Score)
	case g.Phase.InProgress():
		return fmt.Sprintf("Current score: %s %d, %s %d (%s)", away, g.Away.Score, home, g.Home.Score, g.Period.Ordinal())
	default:
		start := timeutil.FormatStartTime(g.StartTime, timeutil.Eastern())
		return fmt.Sprintf("%s (%s) at %s (%s) starts at %s ET", away, g.Away.Record, home, g.Home.Record, start)
	}
}

// ScoreboardText lists every game on the scoreboard, one per line.
func (r *Renderer) ScoreboardText(sb games.Scoreboard) string {
	if len(sb.Games) == 0 {
		return "No games found for today."
	}
	lines := make([]string, 0, len(sb.Games))
	for _, g := range sb.Games {
		lines = append(lines, r.ScoreText(g))
	}
	return strings.Join(lines, "\n")
}

// FindTeamGame returns the game code plays in on the scoreboard.
func FindTeamGame(sb games.Scoreboard, code string) (games.Game, bool) {
	for _, g := range sb.Games {
		if g.Away.Code == code || g.Home.Code == code {
			return g, true
		}
	}
	return games.Game{}, false
}
