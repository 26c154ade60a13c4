package feed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/timeutil"
)

const (
	playGoal          = "goal"
	playShotOnGoal    = "shot-on-goal"
	playMissedShot    = "missed-shot"
	playFailedAttempt = "failed-shot-attempt"
)

// mapPhase folds the feed's gameState onto the reconciler's lifecycle.
// Unrecognised states are treated as scheduled so they are skipped.
func mapPhase(state string) games.Phase {
	switch state {
	case "LIVE":
		return games.PhaseLive
	case "CRIT":
		return games.PhaseCritical
	case "FINAL", "OFF", "OVER":
		return games.PhaseFinal
	default:
		return games.PhaseScheduled
	}
}

func mapPeriod(pd periodDescriptor) games.Period {
	pt := games.PeriodType(pd.PeriodType)
	if pt == "" {
		pt = games.PeriodRegulation
		if pd.Number >= 4 {
			pt = games.PeriodOvertime
		}
	}
	return games.Period{Number: pd.Number, Type: pt}
}

func mapTeam(t wireTeam) games.Team {
	return games.Team{ID: t.ID, Code: t.Abbrev, Score: t.Score, Record: t.Record}
}

func mapSeries(s *seriesStatus) *games.Series {
	if s == nil || (s.TopSeedTeamAbbrev == "" && s.BottomSeedTeamAbbrev == "") {
		return nil
	}
	return &games.Series{
		TopSeed:     s.TopSeedTeamAbbrev,
		TopWins:     s.TopSeedWins,
		BottomSeed:  s.BottomSeedTeamAbbrev,
		BottomWins:  s.BottomSeedWins,
		NeededToWin: s.NeededToWin,
	}
}

func parseStart(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapScoreboard(resp scoreboardResponse) games.Scoreboard {
	sb := games.Scoreboard{FocusDate: resp.FocusedDate}
	for _, day := range resp.GamesByDate {
		if day.Date != resp.FocusedDate {
			continue
		}
		for _, g := range day.Games {
			sb.Games = append(sb.Games, mapScoreboardGame(g))
		}
	}
	return sb
}

func mapScoreboardGame(g scoreboardGame) games.Game {
	period := games.Period{Number: g.Period}
	if g.PeriodDescriptor != nil {
		period = mapPeriod(*g.PeriodDescriptor)
	} else if g.Period > 0 {
		period = mapPeriod(periodDescriptor{Number: g.Period})
	}
	return games.Game{
		ID:            strconv.Itoa(g.ID),
		Type:          games.Type(g.GameType),
		Phase:         mapPhase(g.GameState),
		ScheduleState: g.GameScheduleState,
		StartTime:     parseStart(g.StartTimeUTC),
		Away:          mapTeam(g.AwayTeam),
		Home:          mapTeam(g.HomeTeam),
		Period:        period,
		Series:        mapSeries(g.SeriesStatus),
	}
}

func mapRoster(resp playByPlayResponse) []players.Player {
	codes := map[int]string{
		resp.AwayTeam.ID: resp.AwayTeam.Abbrev,
		resp.HomeTeam.ID: resp.HomeTeam.Abbrev,
	}
	out := make([]players.Player, 0, len(resp.RosterSpots))
	for _, spot := range resp.RosterSpots {
		out = append(out, players.Player{
			ID:        spot.PlayerID,
			FirstName: spot.FirstName.Default,
			LastName:  spot.LastName.Default,
			TeamCode:  codes[spot.TeamID],
			Sweater:   spot.SweaterNumber,
		})
	}
	return out
}

func mapGame(resp playByPlayResponse) (games.Game, error) {
	names := make(map[int]string, len(resp.RosterSpots))
	for _, spot := range resp.RosterSpots {
		names[spot.PlayerID] = players.Player{FirstName: spot.FirstName.Default, LastName: spot.LastName.Default}.FullName()
	}

	g := games.Game{
		ID:            strconv.Itoa(resp.ID),
		Type:          games.Type(resp.GameType),
		Phase:         mapPhase(resp.GameState),
		ScheduleState: resp.GameScheduleState,
		StartTime:     parseStart(resp.StartTimeUTC),
		Away:          mapTeam(resp.AwayTeam),
		Home:          mapTeam(resp.HomeTeam),
		Period:        mapPeriod(resp.PeriodDescriptor),
		Clock: games.Clock{
			TimeRemaining:    resp.Clock.TimeRemaining,
			SecondsRemaining: resp.Clock.SecondsRemaining,
			Running:          resp.Clock.Running,
			InIntermission:   resp.Clock.InIntermission,
		},
		PlayCount: len(resp.Plays),
		Series:    mapSeries(resp.SeriesStatus),
	}
	if n := len(resp.Plays); n > 0 {
		g.LastPlayPeriod = mapPeriod(resp.Plays[n-1].PeriodDescriptor)
	}

	for _, play := range resp.Plays {
		period := mapPeriod(play.PeriodDescriptor)
		if play.Details == nil {
			continue
		}
		team := g.Away.Code
		home := false
		if play.Details.EventOwnerTeamID == g.Home.ID {
			team = g.Home.Code
			home = true
		}

		if period.Type == games.PeriodShootout {
			switch play.TypeDescKey {
			case playGoal, playShotOnGoal, playMissedShot, playFailedAttempt:
				shooter := play.Details.ShootingPlayerID
				if play.TypeDescKey == playGoal {
					shooter = play.Details.ScoringPlayerID
				}
				g.Shootout = append(g.Shootout, games.ShootoutAttempt{
					TeamCode: team,
					Shooter:  names[shooter],
					Scored:   play.TypeDescKey == playGoal,
				})
			}
			continue
		}
		if play.TypeDescKey != playGoal {
			continue
		}

		elapsed, err := timeutil.ParseClock(play.TimeInPeriod)
		if err != nil {
			return games.Game{}, fmt.Errorf("game %d goal %d: %w", resp.ID, play.EventID, err)
		}
		goal := games.Goal{
			EventID:         play.EventID,
			Period:          period,
			TimeInPeriod:    play.TimeInPeriod,
			ElapsedInPeriod: elapsed,
			SituationCode:   play.SituationCode,
			TeamCode:        team,
			HomeTeam:        home,
			ScorerID:        play.Details.ScoringPlayerID,
			Scorer:          names[play.Details.ScoringPlayerID],
			ScorerTotal:     play.Details.ScoringPlayerTotal,
			ShotType:        play.Details.ShotType,
			AwayScore:       play.Details.AwayScore,
			HomeScore:       play.Details.HomeScore,
		}
		if play.Details.HighlightClip > 0 {
			goal.HighlightClip = MediaLink(play.Details.HighlightClip)
		}
		if id := play.Details.Assist1PlayerID; id != 0 {
			goal.Assists = append(goal.Assists, games.Assist{PlayerID: id, Name: names[id], SeasonTotal: play.Details.Assist1PlayerTotal})
		}
		if id := play.Details.Assist2PlayerID; id != 0 {
			goal.Assists = append(goal.Assists, games.Assist{PlayerID: id, Name: names[id], SeasonTotal: play.Details.Assist2PlayerTotal})
		}
		g.Goals = append(g.Goals, goal)
	}
	return g, nil
}

// MediaLink builds a playable clip URL from a feed video id.
func MediaLink(id int64) string {
	return MediaLinkBase + strconv.FormatInt(id, 10)
}
