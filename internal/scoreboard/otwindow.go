package scoreboard

import (
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
)

// DefaultChallengeThreshold is how late in a tied third period the OT
// challenge opens.
const DefaultChallengeThreshold = 2 * time.Minute

// ChallengeWindowOpen reports whether guesses for the overtime winner are
// being accepted. The game must be in progress and tied, and one of:
//   - in intermission after overtime (playoffs only)
//   - in intermission after the third period
//   - in the third period with less than threshold remaining
//
// During intermissions the feed can already report the next period number,
// so the last play's period decides which intermission it is.
func ChallengeWindowOpen(g games.Game, threshold time.Duration) bool {
	if !g.Phase.InProgress() || !g.Tied() {
		return false
	}
	if g.Clock.InIntermission {
		last := g.LastPlayPeriod
		if last.Type == games.PeriodOvertime {
			return g.Playoff()
		}
		return last.Type == games.PeriodRegulation && last.Number == 3
	}
	if g.Period.Type != games.PeriodRegulation || g.Period.Number != 3 {
		return false
	}
	return time.Duration(g.Clock.SecondsRemaining)*time.Second < threshold
}
