package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/config"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/feed"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/feed/fixture"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
)

// feedFactory assembles the configured feed with the shared wrappers (rate limit + retry).
type feedFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newFeedFactory(logger *slog.Logger, metrics *metrics.Recorder) feedFactory {
	return feedFactory{logger: logger, metrics: metrics}
}

func (f feedFactory) build(cfg config.FeedConfig) feed.Feed {
	base, name := selectFeed(cfg, f.logger)
	limited := feed.NewLimitedFeed(base, cfg.RequestsPerSecond, f.logger)
	return feed.NewRetryingFeed(limited, f.logger, f.metrics, name, cfg.MaxAttempts, time.Duration(cfg.Backoff))
}

// selectFeed picks the upstream by name. Unknown names fall back to the NHL API.
func selectFeed(cfg config.FeedConfig, logger *slog.Logger) (feed.Feed, string) {
	switch name := strings.ToLower(strings.TrimSpace(cfg.Provider)); name {
	case fixture.Name:
		return fixture.New(), fixture.Name
	case "", feed.Name:
	default:
		logging.Warn(logger, "unknown feed provider, using nhle", slog.String(logging.FieldFeed, name))
	}
	return feed.NewClient(feed.Config{
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.Timeout),
	}), feed.Name
}
