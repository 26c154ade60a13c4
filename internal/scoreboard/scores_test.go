package scoreboard

import (
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/testutil"
)

func TestScoreText(t *testing.T) {
	r := NewRenderer(nil)

	live := testutil.LiveGame("g1")
	live.Away.Score, live.Home.Score = 2, 1
	live.Period = games.Period{Number: 2, Type: games.PeriodRegulation}

	overtime := live
	overtime.Period = games.Period{Number: 4, Type: games.PeriodOvertime}

	final := testutil.FinalGame(live, games.Period{Number: 4, Type: games.PeriodOvertime})
	final.Away.Score, final.Home.Score = 3, 2

	scheduled := testutil.LiveGame("g2")
	scheduled.Phase = games.PhaseScheduled
	scheduled.Away.Record, scheduled.Home.Record = "20-10-3", "15-14-4"
	scheduled.StartTime = time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	postponed := scheduled
	postponed.ScheduleState = "PPD"

	cases := []struct {
		name string
		game games.Game
		want string
	}{
		{name: "live", game: live, want: "Current score: TOR 2, MTL 1 (2nd)"},
		{name: "overtime", game: overtime, want: "Current score: TOR 2, MTL 1 (OT)"},
		{name: "final", game: final, want: "Final: TOR 3, MTL 2"},
		{name: "scheduled", game: scheduled, want: "TOR (20-10-3) at MTL (15-14-4) starts at 7:00pm ET"},
		{name: "postponed", game: postponed, want: "TOR at MTL PPD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.ScoreText(tc.game); got != tc.want {
				t.Fatalf("ScoreText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScoreboardText(t *testing.T) {
	r := NewRenderer(nil)
	if got := r.ScoreboardText(games.Scoreboard{}); got != "No games found for today." {
		t.Fatalf("unexpected empty text %q", got)
	}

	other := testutil.LiveGame("g2")
	other.Away.Code, other.Home.Code = "BOS", "OTT"
	got := r.ScoreboardText(games.Scoreboard{Games: []games.Game{testutil.LiveGame("g1"), other}})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "BOS 0, OTT 0") {
		t.Fatalf("expected one line per game, got %q", got)
	}
}

func TestFindTeamGame(t *testing.T) {
	sb := games.Scoreboard{Games: []games.Game{testutil.LiveGame("g1")}}
	if g, ok := FindTeamGame(sb, "MTL"); !ok || g.ID != "g1" {
		t.Fatalf("expected home team match, got %+v %v", g, ok)
	}
	if _, ok := FindTeamGame(sb, "BOS"); ok {
		t.Fatal("expected no match for a team not playing")
	}
}
