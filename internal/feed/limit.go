package feed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
)

// limitedFeed wraps a Feed and spaces upstream calls with a token bucket.
type limitedFeed struct {
	next    Feed
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewLimitedFeed returns a Feed that allows at most perSecond calls per
// second, blocking callers until a token is free. A non-positive rate
// returns next unchanged.
func NewLimitedFeed(next Feed, perSecond int, logger *slog.Logger) Feed {
	if perSecond <= 0 {
		return next
	}
	return &limitedFeed{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		logger:  logger,
	}
}

func (l *limitedFeed) wait(ctx context.Context, op string) error {
	if err := l.limiter.Wait(ctx); err != nil {
		logging.Warn(l.logger, "rate-limited fetch canceled", slog.String("op", op))
		return fmt.Errorf("feed limiter: %w", err)
	}
	return nil
}

func (l *limitedFeed) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	if err := l.wait(ctx, "scoreboard"); err != nil {
		return games.Scoreboard{}, err
	}
	return l.next.FetchScoreboard(ctx)
}

func (l *limitedFeed) FetchGame(ctx context.Context, gameID string) (games.Game, error) {
	if err := l.wait(ctx, "game"); err != nil {
		return games.Game{}, err
	}
	return l.next.FetchGame(ctx, gameID)
}

func (l *limitedFeed) FetchRecapLink(ctx context.Context, gameID string) (string, error) {
	if err := l.wait(ctx, "recap"); err != nil {
		return "", err
	}
	return l.next.FetchRecapLink(ctx, gameID)
}

func (l *limitedFeed) FetchRoster(ctx context.Context, gameID string) ([]players.Player, error) {
	if err := l.wait(ctx, "roster"); err != nil {
		return nil, err
	}
	return l.next.FetchRoster(ctx, gameID)
}
