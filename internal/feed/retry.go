package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
)

const (
	defaultRetryAttempts = 1
	defaultBackoff       = 500 * time.Millisecond
	maxRetryAfter        = 30 * time.Second
)

type backoffFunc func(attempt int) time.Duration

// retryingFeed wraps a Feed with metrics, logging and optional retries.
type retryingFeed struct {
	inner       Feed
	name        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingFeed wraps inner so every call is recorded and, when
// maxAttempts > 1, retried with linear backoff. Rate-limited responses wait
// for Retry-After (capped) before the next attempt.
func NewRetryingFeed(inner Feed, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) Feed {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = Name
	}
	return &retryingFeed{
		inner:       inner,
		name:        name,
		logger:      logger,
		metrics:     recorder,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingFeed) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	return withRetry(ctx, r, "scoreboard", r.inner.FetchScoreboard)
}

func (r *retryingFeed) FetchGame(ctx context.Context, gameID string) (games.Game, error) {
	return withRetry(ctx, r, "game", func(ctx context.Context) (games.Game, error) {
		return r.inner.FetchGame(ctx, gameID)
	})
}

func (r *retryingFeed) FetchRecapLink(ctx context.Context, gameID string) (string, error) {
	return withRetry(ctx, r, "recap", func(ctx context.Context) (string, error) {
		return r.inner.FetchRecapLink(ctx, gameID)
	})
}

func (r *retryingFeed) FetchRoster(ctx context.Context, gameID string) ([]players.Player, error) {
	return withRetry(ctx, r, "roster", func(ctx context.Context) ([]players.Player, error) {
		return r.inner.FetchRoster(ctx, gameID)
	})
}

func withRetry[T any](ctx context.Context, r *retryingFeed, op string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		out, err := fn(ctx)
		r.metrics.RecordFeedAttempt(r.name, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNotFound) {
			break
		}

		delay := r.backoffFn(attempt)
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.name, rl.RetryAfter)
			if rl.RetryAfter > 0 {
				delay = min(rl.RetryAfter, maxRetryAfter)
			}
		}
		if attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "feed fetch retry", "op", op, "attempt", attempt, "max_attempts", r.maxAttempts, "error", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn(ctx, "feed fetch failed", "op", op, "attempts", r.maxAttempts, "error", lastErr)
	return zero, lastErr
}

func (r *retryingFeed) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, append(args, logging.FieldFeed, r.name)...)
	}
}
