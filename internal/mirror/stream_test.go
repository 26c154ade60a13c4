package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/notify"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

type fakeAdder struct {
	args []*redis.XAddArgs
	err  error
}

func (f *fakeAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = append(f.args, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestMirrorPublishesChange(t *testing.T) {
	fake := &fakeAdder{}
	s := NewStream(fake, "scoreboard.events")
	ch := notify.Change{GameID: "g1", Key: "330", Action: "posted", Content: state.Content{Title: "GOAL"}}

	if err := s.Mirror(context.Background(), ch); err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if len(fake.args) != 1 {
		t.Fatalf("expected one xadd, got %d", len(fake.args))
	}
	args := fake.args[0]
	if args.Stream != "scoreboard.events" || !args.Approx || args.MaxLen != defaultMaxLen {
		t.Fatalf("unexpected args %+v", args)
	}
	values := args.Values.(map[string]interface{})
	if values["game_id"] != "g1" || values["key"] != "330" || values["action"] != "posted" {
		t.Fatalf("unexpected values %+v", values)
	}
	var decoded notify.Change
	if err := json.Unmarshal([]byte(values["data"].(string)), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Content.Title != "GOAL" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestMirrorWrapsErrors(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewStream(&fakeAdder{err: boom}, "s")
	if err := s.Mirror(context.Background(), notify.Change{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestDialRejectsBadURL(t *testing.T) {
	if _, _, err := Dial(context.Background(), "not a url", "s"); err == nil {
		t.Fatal("expected parse error")
	}
}
