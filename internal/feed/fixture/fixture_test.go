package fixture

import (
	"context"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
)

func TestFixtureAdvancesToFinal(t *testing.T) {
	f := New()
	f.now = func() time.Time { return time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	var last games.Scoreboard
	for i := 0; i < len(script)+2; i++ {
		sb, err := f.FetchScoreboard(ctx)
		if err != nil {
			t.Fatalf("fetch scoreboard: %v", err)
		}
		last = sb
	}
	if last.FocusDate != "2024-01-10" {
		t.Fatalf("unexpected focus date %s", last.FocusDate)
	}

	g, err := f.FetchGame(ctx, last.Games[0].ID)
	if err != nil {
		t.Fatalf("fetch game: %v", err)
	}
	if g.Phase != games.PhaseFinal || len(g.OvertimeGoals()) != 1 {
		t.Fatalf("expected final OT game, got %+v", g)
	}

	link, err := f.FetchRecapLink(ctx, g.ID)
	if err != nil || link == "" {
		t.Fatalf("expected recap link once final, got %q (%v)", link, err)
	}
}

func TestFixtureRejectsUnknownGame(t *testing.T) {
	f := New()
	if _, err := f.FetchGame(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown game")
	}
	if _, err := f.FetchRoster(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown roster")
	}
}
