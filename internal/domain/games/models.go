package games

import (
	"fmt"
	"time"
)

// Phase is the coarse lifecycle of a game as seen by the reconciler.
type Phase string

const (
	PhaseScheduled Phase = "scheduled"
	PhaseLive      Phase = "live"
	PhaseCritical  Phase = "critical"
	PhaseFinal     Phase = "final"
)

// InProgress reports whether the puck has dropped and the game is not over.
func (p Phase) InProgress() bool {
	return p == PhaseLive || p == PhaseCritical
}

// Type distinguishes preseason, regular season and playoff games.
type Type int

const (
	TypePreseason Type = 1
	TypeRegular   Type = 2
	TypePlayoff   Type = 3
)

// PeriodType is regulation, overtime or shootout.
type PeriodType string

const (
	PeriodRegulation PeriodType = "REG"
	PeriodOvertime   PeriodType = "OT"
	PeriodShootout   PeriodType = "SO"
)

// RegulationPeriodSeconds is the length of a regulation period.
const RegulationPeriodSeconds = 20 * 60

// Period identifies a period by number and type.
type Period struct {
	Number int        `json:"number"`
	Type   PeriodType `json:"type"`
}

// Ordinal renders the period as 1st/2nd/3rd/OT/2OT/.../SO.
func (p Period) Ordinal() string {
	if p.Type == PeriodShootout {
		return "SO"
	}
	switch p.Number {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "OT"
	}
	if p.Number > 4 {
		return fmt.Sprintf("%dOT", p.Number-3)
	}
	return ""
}

// Clock is the live game clock.
type Clock struct {
	TimeRemaining    string `json:"timeRemaining"`
	SecondsRemaining int    `json:"secondsRemaining"`
	Running          bool   `json:"running"`
	InIntermission   bool   `json:"inIntermission"`
}

// Team is one side of a game.
type Team struct {
	ID     int    `json:"id"`
	Code   string `json:"code"`
	Score  int    `json:"score"`
	Record string `json:"record,omitempty"`
}

// Assist credits a helper with their season tally.
type Assist struct {
	PlayerID    int    `json:"playerId"`
	Name        string `json:"name"`
	SeasonTotal int    `json:"seasonTotal"`
}

// Goal is a scoring play outside the shootout.
type Goal struct {
	EventID         int      `json:"eventId"`
	Period          Period   `json:"period"`
	TimeInPeriod    string   `json:"timeInPeriod"`
	ElapsedInPeriod int      `json:"elapsedInPeriod"`
	SituationCode   string   `json:"situationCode"`
	TeamCode        string   `json:"teamCode"`
	HomeTeam        bool     `json:"homeTeam"`
	ScorerID        int      `json:"scorerId"`
	Scorer          string   `json:"scorer"`
	ScorerTotal     int      `json:"scorerTotal"`
	ShotType        string   `json:"shotType,omitempty"`
	Assists         []Assist `json:"assists,omitempty"`
	AwayScore       int      `json:"awayScore"`
	HomeScore       int      `json:"homeScore"`
	HighlightClip   string   `json:"highlightClip,omitempty"`
}

// TimeKey is the goal's elapsed game time in seconds, counting every prior
// period as a full regulation period.
func (g Goal) TimeKey() int {
	return (g.Period.Number-1)*RegulationPeriodSeconds + g.ElapsedInPeriod
}

// ShootoutAttempt is one shooter's try in the shootout.
type ShootoutAttempt struct {
	TeamCode string `json:"teamCode"`
	Shooter  string `json:"shooter,omitempty"`
	Scored   bool   `json:"scored"`
}

// Series is the playoff series state as reported by the feed.
type Series struct {
	TopSeed     string `json:"topSeed"`
	TopWins     int    `json:"topWins"`
	BottomSeed  string `json:"bottomSeed"`
	BottomWins  int    `json:"bottomWins"`
	NeededToWin int    `json:"neededToWin"`
}

// Game is a read-only snapshot of one game, replaced wholesale every fetch.
type Game struct {
	ID             string            `json:"id"`
	Type           Type              `json:"type"`
	Phase          Phase             `json:"phase"`
	ScheduleState  string            `json:"scheduleState"`
	StartTime      time.Time         `json:"startTime"`
	Away           Team              `json:"away"`
	Home           Team              `json:"home"`
	Period         Period            `json:"period"`
	Clock          Clock             `json:"clock"`
	LastPlayPeriod Period            `json:"lastPlayPeriod"`
	PlayCount      int               `json:"playCount"`
	Goals          []Goal            `json:"goals,omitempty"`
	Shootout       []ShootoutAttempt `json:"shootout,omitempty"`
	Series         *Series           `json:"series,omitempty"`
}

// Playoff reports whether the game is a playoff game.
func (g Game) Playoff() bool {
	return g.Type == TypePlayoff
}

// Tied reports whether the scoreboard is level.
func (g Game) Tied() bool {
	return g.Away.Score == g.Home.Score
}

// OvertimeGoals returns the goals scored in overtime periods.
func (g Game) OvertimeGoals() []Goal {
	var out []Goal
	for _, goal := range g.Goals {
		if goal.Period.Type == PeriodOvertime {
			out = append(out, goal)
		}
	}
	return out
}

// Scoreboard is the feed's list of games for its focus date.
type Scoreboard struct {
	FocusDate string `json:"focusDate"`
	Games     []Game `json:"games"`
}
