package server

import (
	"strings"
	"testing"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/config"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/feed"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/feed/fixture"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/testutil"
)

func TestSelectFeedChoosesFixture(t *testing.T) {
	f, name := selectFeed(config.FeedConfig{Provider: "Fixture"}, nil)
	if _, ok := f.(*fixture.Feed); !ok || name != fixture.Name {
		t.Fatalf("expected fixture feed, got %T/%s", f, name)
	}
}

func TestSelectFeedDefaultsToNHLE(t *testing.T) {
	for _, provider := range []string{"", "nhle"} {
		f, name := selectFeed(config.FeedConfig{Provider: provider}, nil)
		if _, ok := f.(*feed.Client); !ok || name != feed.Name {
			t.Fatalf("provider %q: expected nhle client, got %T/%s", provider, f, name)
		}
	}
}

func TestSelectFeedWarnsOnUnknown(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	f, name := selectFeed(config.FeedConfig{Provider: "espn"}, logger)
	if _, ok := f.(*feed.Client); !ok || name != feed.Name {
		t.Fatalf("expected nhle fallback, got %T/%s", f, name)
	}
	if !strings.Contains(buf.String(), "unknown feed provider") {
		t.Fatalf("expected warning, got %s", buf.String())
	}
}

func TestFeedFactoryWrapsFeed(t *testing.T) {
	f := newFeedFactory(nil, nil).build(config.FeedConfig{Provider: "fixture"})
	if f == nil {
		t.Fatalf("expected feed")
	}
	if _, ok := f.(*fixture.Feed); ok {
		t.Fatalf("expected retry wrapper around the fixture feed")
	}
}
