// Package fixture serves a scripted game day for local runs without the
// upstream API. Each scoreboard fetch advances the script by one step.
package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/timeutil"
)

// Name identifies the fixture feed in logs and metrics.
const Name = "fixture"

const (
	gameID   = "2000020001"
	recapURL = "https://example.invalid/recap/2000020001"
)

// Feed is an in-memory feed that replays a short overtime game.
type Feed struct {
	now func() time.Time

	mu   sync.Mutex
	step int
}

// New creates a fixture feed with a wall clock.
func New() *Feed {
	return &Feed{now: time.Now}
}

// FetchScoreboard advances the script and lists the scripted game.
func (f *Feed) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	_ = ctx
	f.mu.Lock()
	if f.step < len(script)-1 {
		f.step++
	}
	g := f.current()
	f.mu.Unlock()

	return games.Scoreboard{
		FocusDate: timeutil.FormatDate(f.now().In(timeutil.Eastern())),
		Games:     []games.Game{g},
	}, nil
}

// FetchGame returns the current scripted snapshot.
func (f *Feed) FetchGame(ctx context.Context, id string) (games.Game, error) {
	_ = ctx
	if id != gameID {
		return games.Game{}, fmt.Errorf("fixture: unknown game %s", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current(), nil
}

// FetchRecapLink exposes the recap once the game is final.
func (f *Feed) FetchRecapLink(ctx context.Context, id string) (string, error) {
	g, err := f.FetchGame(ctx, id)
	if err != nil {
		return "", err
	}
	if g.Phase != games.PhaseFinal {
		return "", nil
	}
	return recapURL, nil
}

// FetchRoster returns the scripted lineup.
func (f *Feed) FetchRoster(ctx context.Context, id string) ([]players.Player, error) {
	_ = ctx
	if id != gameID {
		return nil, fmt.Errorf("fixture: unknown game %s", id)
	}
	return append([]players.Player(nil), roster...), nil
}

func (f *Feed) current() games.Game {
	g := script[f.step](f.now())
	g.ID = gameID
	return g
}

var roster = []players.Player{
	{ID: 1, FirstName: "Auston", LastName: "Matthews", TeamCode: "TOR", Sweater: 34},
	{ID: 2, FirstName: "Mitch", LastName: "Marner", TeamCode: "TOR", Sweater: 16},
	{ID: 3, FirstName: "Nick", LastName: "Suzuki", TeamCode: "MTL", Sweater: 14},
	{ID: 4, FirstName: "Cole", LastName: "Caufield", TeamCode: "MTL", Sweater: 22},
}

func base(now time.Time) games.Game {
	return games.Game{
		Type:          games.TypeRegular,
		ScheduleState: "OK",
		StartTime:     now.Truncate(time.Hour),
		Away:          games.Team{ID: 10, Code: "TOR", Record: "20-10-5"},
		Home:          games.Team{ID: 8, Code: "MTL", Record: "15-15-5"},
	}
}

func torGoal() games.Goal {
	return games.Goal{
		EventID: 101, Period: games.Period{Number: 1, Type: games.PeriodRegulation},
		TimeInPeriod: "05:30", ElapsedInPeriod: 330, SituationCode: "1551",
		TeamCode: "TOR", ScorerID: 1, Scorer: "Auston Matthews", ScorerTotal: 30,
		ShotType: "wrist", Assists: []games.Assist{{PlayerID: 2, Name: "Mitch Marner", SeasonTotal: 40}},
		AwayScore: 1,
	}
}

func mtlGoal() games.Goal {
	return games.Goal{
		EventID: 202, Period: games.Period{Number: 3, Type: games.PeriodRegulation},
		TimeInPeriod: "17:45", ElapsedInPeriod: 1065, SituationCode: "1451",
		TeamCode: "MTL", HomeTeam: true, ScorerID: 4, Scorer: "Cole Caufield", ScorerTotal: 22,
		ShotType: "snap", AwayScore: 1, HomeScore: 1,
	}
}

func otGoal() games.Goal {
	return games.Goal{
		EventID: 303, Period: games.Period{Number: 4, Type: games.PeriodOvertime},
		TimeInPeriod: "02:11", ElapsedInPeriod: 131, SituationCode: "1331",
		TeamCode: "MTL", HomeTeam: true, ScorerID: 3, Scorer: "Nick Suzuki", ScorerTotal: 18,
		ShotType: "backhand", AwayScore: 1, HomeScore: 2,
	}
}

var script = []func(time.Time) games.Game{
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseScheduled
		return g
	},
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseLive
		g.Period = games.Period{Number: 1, Type: games.PeriodRegulation}
		g.Clock = games.Clock{TimeRemaining: "19:59", SecondsRemaining: 1199, Running: true}
		g.PlayCount = 1
		g.LastPlayPeriod = g.Period
		return g
	},
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseLive
		g.Period = games.Period{Number: 1, Type: games.PeriodRegulation}
		g.Clock = games.Clock{TimeRemaining: "14:30", SecondsRemaining: 870, Running: true}
		g.Away.Score = 1
		g.Goals = []games.Goal{torGoal()}
		g.PlayCount = 20
		g.LastPlayPeriod = g.Period
		return g
	},
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseCritical
		g.Period = games.Period{Number: 3, Type: games.PeriodRegulation}
		g.Clock = games.Clock{TimeRemaining: "01:10", SecondsRemaining: 70, Running: true}
		g.Away.Score, g.Home.Score = 1, 1
		g.Goals = []games.Goal{torGoal(), mtlGoal()}
		g.PlayCount = 200
		g.LastPlayPeriod = g.Period
		return g
	},
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseCritical
		g.Period = games.Period{Number: 4, Type: games.PeriodOvertime}
		g.Clock = games.Clock{TimeRemaining: "02:49", SecondsRemaining: 169, Running: true}
		g.Away.Score, g.Home.Score = 1, 1
		g.Goals = []games.Goal{torGoal(), mtlGoal()}
		g.PlayCount = 230
		g.LastPlayPeriod = g.Period
		return g
	},
	func(now time.Time) games.Game {
		g := base(now)
		g.Phase = games.PhaseFinal
		g.Period = games.Period{Number: 4, Type: games.PeriodOvertime}
		g.Away.Score, g.Home.Score = 1, 2
		g.Goals = []games.Goal{torGoal(), mtlGoal(), otGoal()}
		g.PlayCount = 240
		g.LastPlayPeriod = g.Period
		return g
	},
}
