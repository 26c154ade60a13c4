package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/notify"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

func openLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openLog(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 10, 23, 5, 0, 0, time.UTC)

	changes := []notify.Change{
		{GameID: "g1", Key: state.KeyStart, Action: "posted", Content: state.Content{Title: "TOR at MTL Starting."}, At: at},
		{GameID: "g1", Key: state.KeyShootout, Action: "posted", Content: state.Content{
			Title:  "TOR at MTL Shootout",
			Fields: []state.Field{{Name: "TOR", Value: "✅", Inline: true}},
		}, At: at.Add(time.Minute)},
		{GameID: "g2", Key: "330", Action: "edited", Content: state.Content{Title: "GOAL", Link: "https://example.invalid"}, At: at.Add(2 * time.Minute)},
	}
	for _, ch := range changes {
		if err := l.Record(ctx, ch); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := l.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 3 || all[0].GameID != "g2" || all[0].Link == "" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	g1, err := l.Recent(ctx, "g1", 10)
	if err != nil {
		t.Fatalf("recent g1: %v", err)
	}
	if len(g1) != 2 {
		t.Fatalf("expected 2 g1 entries, got %d", len(g1))
	}
	if len(g1[0].Fields) != 1 || g1[0].Fields[0].Value != "✅" {
		t.Fatalf("expected fields round trip, got %+v", g1[0].Fields)
	}
	if !g1[1].At.Equal(at) {
		t.Fatalf("expected timestamp round trip, got %s", g1[1].At)
	}
}

func TestLogSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Record(context.Background(), notify.Change{Key: notify.ActionRollover, Action: notify.ActionRollover, Content: state.Content{Title: "Tracking date 2024-01-10 -> 2024-01-11"}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = l.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Recent(context.Background(), "", 1)
	if err != nil || len(got) != 1 || got[0].Action != notify.ActionRollover {
		t.Fatalf("unexpected entries %+v (%v)", got, err)
	}
}

func TestNilLogCloses(t *testing.T) {
	var l *Log
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
