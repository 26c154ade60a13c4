package feed

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
)

type flakeyFeed struct {
	failures int
	calls    int
	err      error
}

func (f *flakeyFeed) fail() error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("boom")
	}
	return nil
}

func (f *flakeyFeed) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	if err := f.fail(); err != nil {
		return games.Scoreboard{}, err
	}
	return games.Scoreboard{FocusDate: "2024-01-10"}, nil
}

func (f *flakeyFeed) FetchGame(ctx context.Context, id string) (games.Game, error) {
	if err := f.fail(); err != nil {
		return games.Game{}, err
	}
	return games.Game{ID: id}, nil
}

func (f *flakeyFeed) FetchRecapLink(ctx context.Context, id string) (string, error) {
	if err := f.fail(); err != nil {
		return "", err
	}
	return "link", nil
}

func (f *flakeyFeed) FetchRoster(ctx context.Context, id string) ([]players.Player, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return []players.Player{{ID: 1}}, nil
}

func TestRetryingFeedRetriesAndSucceeds(t *testing.T) {
	ff := &flakeyFeed{failures: 2}
	rec := metrics.NewRecorder()
	rf := NewRetryingFeed(ff, slog.Default(), rec, "flakey", 3, time.Millisecond)

	sb, err := rf.FetchScoreboard(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if sb.FocusDate != "2024-01-10" {
		t.Fatalf("unexpected scoreboard %+v", sb)
	}
	if ff.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", ff.calls)
	}
	if rec.FeedCalls("flakey") != 3 || rec.FeedErrors("flakey") != 2 {
		t.Fatalf("unexpected metrics %+v", rec.Snapshot("flakey"))
	}
}

func TestRetryingFeedDefaultsToSingleAttempt(t *testing.T) {
	ff := &flakeyFeed{failures: 1}
	rf := NewRetryingFeed(ff, nil, nil, "", 0, 0)

	if _, err := rf.FetchGame(context.Background(), "1"); err == nil {
		t.Fatal("expected error without retries")
	}
	if ff.calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", ff.calls)
	}
}

func TestRetryingFeedStopsOnNotFound(t *testing.T) {
	ff := &flakeyFeed{failures: 5, err: &StatusError{StatusCode: 404}}
	rf := NewRetryingFeed(ff, nil, nil, "flakey", 4, time.Millisecond)

	_, err := rf.FetchRecapLink(context.Background(), "1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if ff.calls != 1 {
		t.Fatalf("expected no retry on 404, got %d calls", ff.calls)
	}
}

func TestRetryingFeedRespectsContextCancel(t *testing.T) {
	ff := &flakeyFeed{failures: 5}
	rf := NewRetryingFeed(ff, nil, nil, "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rf.FetchRoster(ctx, "1"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRetryingFeedHonoursRetryAfter(t *testing.T) {
	ff := &flakeyFeed{failures: 1, err: &RateLimitError{StatusCode: 429, RetryAfter: 5 * time.Millisecond}}
	rec := metrics.NewRecorder()
	rf := NewRetryingFeed(ff, nil, rec, "flakey", 2, time.Hour)

	start := time.Now()
	if _, err := rf.FetchGame(context.Background(), "1"); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected Retry-After to replace the hour backoff")
	}
	if rec.RateLimitHits("flakey") != 1 {
		t.Fatalf("expected one rate limit hit, got %d", rec.RateLimitHits("flakey"))
	}
}
