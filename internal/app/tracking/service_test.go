package tracking

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

type failingStore struct{}

func (failingStore) Lookup(string) (string, bool) { return "", false }
func (failingStore) Set(string, string) error { return errors.New("disk full") }
func (failingStore) Remove(string) (bool, error) { return false, errors.New("disk full") }
func (failingStore) Destinations() []string { return nil }

func newRegistry(t *testing.T) *state.ChannelRegistry {
	t.Helper()
	reg, err := state.OpenChannelRegistry("")
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(reg.Close)
	return reg
}

func TestStartTrackingOutcomes(t *testing.T) {
	svc := NewService(newRegistry(t))

	steps := []struct {
		channel string
		want    Outcome
	}{
		{"c1", Started},
		{"c1", Unchanged},
		{"c2", Moved},
	}
	for _, step := range steps {
		got, err := svc.StartTracking("guild", step.channel)
		if err != nil {
			t.Fatalf("start %s: %v", step.channel, err)
		}
		if got != step.want {
			t.Fatalf("start %s: expected %d, got %d", step.channel, step.want, got)
		}
	}
	if ch, ok := svc.Channel("guild"); !ok || ch != "c2" {
		t.Fatalf("expected guild on c2, got %q", ch)
	}
	if dests := svc.Destinations(); len(dests) != 1 || dests[0] != "c2" {
		t.Fatalf("unexpected destinations %v", dests)
	}
}

func TestStopTracking(t *testing.T) {
	svc := NewService(newRegistry(t))
	if _, err := svc.StartTracking("guild", "c1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	removed, err := svc.StopTracking("guild")
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v %v", removed, err)
	}
	removed, err = svc.StopTracking("guild")
	if err != nil || removed {
		t.Fatalf("expected no-op second stop, got %v %v", removed, err)
	}
	if len(svc.Destinations()) != 0 {
		t.Fatal("expected no destinations")
	}
}

func TestMissingIDs(t *testing.T) {
	svc := NewService(newRegistry(t))
	if _, err := svc.StartTracking(" ", "c1"); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if _, err := svc.StopTracking(""); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	svc := NewService(failingStore{})
	if _, err := svc.StartTracking("guild", "c1"); err == nil {
		t.Fatal("expected set error")
	}
	if _, err := svc.StopTracking("guild"); err == nil {
		t.Fatal("expected remove error")
	}
}
