package testutil

import (
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/timeutil"
)

// LiveGame returns a regular-season TOR at MTL game in the first period.
func LiveGame(id string) games.Game {
	return games.Game{
		ID:             id,
		Type:           games.TypeRegular,
		Phase:          games.PhaseLive,
		ScheduleState:  "OK",
		Away:           games.Team{ID: 10, Code: "TOR"},
		Home:           games.Team{ID: 8, Code: "MTL"},
		Period:         games.Period{Number: 1, Type: games.PeriodRegulation},
		Clock:          games.Clock{TimeRemaining: "20:00", SecondsRemaining: 1200, Running: true},
		LastPlayPeriod: games.Period{Number: 1, Type: games.PeriodRegulation},
		PlayCount:      1,
	}
}

// Goal builds a goal for team at mm:ss elapsed in the given period, with
// the running score after it.
func Goal(team string, home bool, period int, elapsed string, away, homeScore int) games.Goal {
	pt := games.PeriodRegulation
	if period >= 4 {
		pt = games.PeriodOvertime
	}
	secs, err := timeutil.ParseClock(elapsed)
	if err != nil {
		panic(err)
	}
	return games.Goal{
		EventID:         period*1000 + secs,
		Period:          games.Period{Number: period, Type: pt},
		TimeInPeriod:    elapsed,
		ElapsedInPeriod: secs,
		SituationCode:   "1551",
		TeamCode:        team,
		HomeTeam:        home,
		ScorerID:        100,
		Scorer:          "Test Scorer",
		ScorerTotal:     1,
		AwayScore:       away,
		HomeScore:       homeScore,
	}
}

// WithGoals returns g carrying goals, with the scoreboard set from the last
// goal's running score.
func WithGoals(g games.Game, goals ...games.Goal) games.Game {
	g.Goals = goals
	g.PlayCount = len(goals) + 1
	if n := len(goals); n > 0 {
		g.Away.Score = goals[n-1].AwayScore
		g.Home.Score = goals[n-1].HomeScore
	}
	return g
}

// FinalGame marks g final in the given period.
func FinalGame(g games.Game, period games.Period) games.Game {
	g.Phase = games.PhaseFinal
	g.Period = period
	g.LastPlayPeriod = period
	g.Clock = games.Clock{TimeRemaining: "00:00"}
	return g
}
