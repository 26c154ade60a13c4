package scoreboard

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/teams"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

const (
	markScored = "✅"
	markMissed = "❌"
	emptyField = "-"
)

// Renderer turns game facts into user-facing text.
type Renderer struct {
	teams *teams.Registry
}

// NewRenderer builds a renderer that decorates team codes from registry.
// A nil registry renders bare codes.
func NewRenderer(registry *teams.Registry) *Renderer {
	return &Renderer{teams: registry}
}

// Strike wraps text in retraction markup.
func Strike(text string) string {
	if IsStruck(text) {
		return text
	}
	return "~~" + text + "~~"
}

// IsStruck reports whether text is already wrapped in retraction markup.
func IsStruck(text string) bool {
	return len(text) >= 4 && strings.HasPrefix(text, "~~") && strings.HasSuffix(text, "~~")
}

// Matchup renders "{e} AWAY at {e} HOME".
func (r *Renderer) Matchup(g games.Game) string {
	return r.teams.Label(g.Away.Code) + " at " + r.teams.Label(g.Home.Code)
}

// StartTitle announces puck drop.
func (r *Renderer) StartTitle(g games.Game) string {
	return r.Matchup(g) + " Starting."
}

// ScoreLine renders the running score as "({e} AWAY a, {e} HOME h)".
func (r *Renderer) ScoreLine(g games.Game, away, home int) string {
	return fmt.Sprintf("(%s %d, %s %d)", r.teams.Label(g.Away.Code), away, r.teams.Label(g.Home.Code), home)
}

// GoalTitle renders a goal post. The score line is returned separately so
// jittered goal keys can be matched on it.
func (r *Renderer) GoalTitle(g games.Game, goal games.Goal) (title, scoreLine string) {
	var b strings.Builder
	if e := r.teams.GoalEmoji(); e != "" {
		b.WriteString(e)
		b.WriteByte(' ')
	}
	b.WriteString("GOAL ")
	b.WriteString(Strength(goal))
	b.WriteString(r.teams.Label(goal.TeamCode))
	fmt.Fprintf(&b, " %s %s: ", goal.TimeInPeriod, goal.Period.Ordinal())
	b.WriteString(describeGoal(goal))

	scoreLine = r.ScoreLine(g, goal.AwayScore, goal.HomeScore)
	b.WriteByte(' ')
	b.WriteString(scoreLine)
	return b.String(), scoreLine
}

func describeGoal(goal games.Goal) string {
	scorer := goal.Scorer
	if scorer == "" {
		scorer = "Unknown"
	}
	out := fmt.Sprintf("%s (%d)", scorer, goal.ScorerTotal)
	if goal.ShotType != "" {
		out += " " + goal.ShotType + " shot"
	}
	if len(goal.Assists) == 0 {
		return out + ", unassisted"
	}
	helpers := make([]string, 0, len(goal.Assists))
	for _, a := range goal.Assists {
		helpers = append(helpers, fmt.Sprintf("%s (%d)", a.Name, a.SeasonTotal))
	}
	return out + ", assists: " + strings.Join(helpers, ", ")
}

// ShootoutContent renders one column of ✅/❌ per team.
func (r *Renderer) ShootoutContent(g games.Game) state.Content {
	var away, home strings.Builder
	for _, a := range g.Shootout {
		mark := markMissed
		if a.Scored {
			mark = markScored
		}
		switch a.TeamCode {
		case g.Away.Code:
			away.WriteString(mark)
		case g.Home.Code:
			home.WriteString(mark)
		}
	}
	return state.Content{
		Title: r.Matchup(g) + " Shootout",
		Fields: []state.Field{
			{Name: r.teams.Label(g.Away.Code), Value: orPlaceholder(away.String()), Inline: true},
			{Name: r.teams.Label(g.Home.Code), Value: orPlaceholder(home.String()), Inline: true},
		},
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return emptyField
	}
	return s
}

// OTTitle renders the OT challenge announcement, struck through once closed.
func (r *Renderer) OTTitle(g games.Game, open bool) string {
	title := "OT Challenge for " + r.Matchup(g) + " is open."
	if !open {
		return Strike(title)
	}
	return title
}

// ThreadName names the OT challenge discussion thread.
func ThreadName(g games.Game) string {
	return strings.ToLower(fmt.Sprintf("ot-challenge-%s-%s", g.Away.Code, g.Home.Code))
}

// FinalTitle renders the final score with its (OT)/(2OT)/(SO) tag. ok is
// false while the score is still level, which happens when the shootout
// winner has not been applied yet.
func (r *Renderer) FinalTitle(g games.Game) (title string, ok bool) {
	away, home := g.Away.Score, g.Home.Score
	shootout := g.Period.Type == games.PeriodShootout || len(g.Shootout) > 0
	if away == home && shootout {
		a, h := shootoutGoals(g)
		switch {
		case a > h:
			away++
		case h > a:
			home++
		}
	}
	if away == home {
		return "", false
	}

	title = fmt.Sprintf("%s %d, %s %d Final", r.teams.Label(g.Away.Code), away, r.teams.Label(g.Home.Code), home)
	switch {
	case shootout:
		title += " (SO)"
	case g.Period.Type == games.PeriodOvertime:
		title += " (" + g.Period.Ordinal() + ")"
	}
	return title, true
}

func shootoutGoals(g games.Game) (away, home int) {
	for _, a := range g.Shootout {
		if !a.Scored {
			continue
		}
		switch a.TeamCode {
		case g.Away.Code:
			away++
		case g.Home.Code:
			home++
		}
	}
	return away, home
}

// SeriesStatus renders playoff series state such as "TOR leads 2-1",
// "Series tied 1-1" or "TOR wins 4-2". Non-playoff games return "".
func SeriesStatus(g games.Game) string {
	s := g.Series
	if !g.Playoff() || s == nil {
		return ""
	}
	leader, lw, tw := s.TopSeed, s.TopWins, s.BottomWins
	if s.BottomWins > s.TopWins {
		leader, lw, tw = s.BottomSeed, s.BottomWins, s.TopWins
	}
	switch {
	case lw == tw:
		return fmt.Sprintf("Series tied %d-%d", lw, tw)
	case s.NeededToWin > 0 && lw >= s.NeededToWin:
		return fmt.Sprintf("%s wins %d-%d", leader, lw, tw)
	default:
		return fmt.Sprintf("%s leads %d-%d", leader, lw, tw)
	}
}
