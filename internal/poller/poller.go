package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/metrics"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/timeutil"
)

const (
	defaultInterval = 10 * time.Second
	readyFailures   = 3
)

// Feed is the subset of the league feed the poller drives.
type Feed interface {
	FetchScoreboard(ctx context.Context) (games.Scoreboard, error)
	FetchGame(ctx context.Context, gameID string) (games.Game, error)
}

// Reconciler turns one game snapshot into posted events.
type Reconciler interface {
	Reconcile(ctx context.Context, g games.Game) error
}

// DateStore holds the tracking date and is cleared on rollover.
type DateStore interface {
	Date() string
	SetDate(date string) error
	Reset(date string) error
}

// RolloverHook runs before the tracking date advances and the event store is cleared.
type RolloverHook interface {
	BeforeRollover(ctx context.Context, from, to string) error
}

// Poller fetches the scoreboard on an interval and reconciles every tracked game.
type Poller struct {
	feed       Feed
	reconciler Reconciler
	store      DateStore
	hooks      []RolloverHook
	logger     *slog.Logger
	metrics    *metrics.Recorder
	interval   time.Duration
	now        func() time.Time

	rolloverRequested atomic.Bool

	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	LastCycleID         string    `json:"lastCycleId,omitempty"`
	TrackingDate        string    `json:"trackingDate,omitempty"`
	Games               int       `json:"games"`
	GameFailures        int       `json:"gameFailures"`
	Restarts            int       `json:"restarts"`
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailures
}

// Option customises a Poller.
type Option func(*Poller)

// WithLogger sets the poller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics attaches a recorder for cycle and rollover metrics.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Poller) { p.metrics = recorder }
}

// WithInterval overrides the tick interval. Non-positive values keep the default.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithRolloverHooks registers hooks run in order before each rollover.
func WithRolloverHooks(hooks ...RolloverHook) Option {
	return func(p *Poller) {
		for _, h := range hooks {
			if h != nil {
				p.hooks = append(p.hooks, h)
			}
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Poller with sane defaults.
func New(feed Feed, reconciler Reconciler, store DateStore, opts ...Option) *Poller {
	p := &Poller{
		feed:       feed,
		reconciler: reconciler,
		store:      store,
		logger:     slog.Default(),
		interval:   defaultInterval,
		now:        time.Now,
		done:       make(chan struct{}),
		exited:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling loop. The first tick runs immediately.
// Calling Start more than once is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return
	}
	p.started = true
	go p.run(ctx)
}

// Stop signals the loop to exit and waits for it, bounded by ctx.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.done) })

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-p.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestRollover forces a rollover on the next tick even when the feed date is unchanged.
func (p *Poller) RequestRollover() {
	p.rolloverRequested.Store(true)
}

// Status returns a snapshot of the loop health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.exited)
	for {
		if p.loop(ctx) {
			return
		}
		p.updateStatus(func(s *Status) { s.Restarts++ })
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-time.After(p.interval):
		}
	}
}

// loop returns true on a clean exit and false when it recovered from a panic.
func (p *Poller) loop(ctx context.Context) (clean bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error(p.logger, "poller loop panicked; restarting", fmt.Errorf("%v", r))
			clean = false
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return true
		case <-p.done:
			return true
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	cycleID := uuid.NewString()
	logger := p.logger.With(slog.String(logging.FieldCycleID, cycleID))
	ctx = logging.WithLogger(ctx, logger)

	start := p.now()
	p.updateStatus(func(s *Status) {
		s.LastAttempt = start
		s.LastCycleID = cycleID
	})

	sb, err := p.feed.FetchScoreboard(ctx)
	if err != nil {
		p.recordFailure(logger, start, fmt.Errorf("fetch scoreboard: %w", err))
		return
	}

	if !p.advanceDate(ctx, logger, sb.FocusDate) {
		p.recordSuccess(logger, start, 0, 0)
		return
	}

	tracked, failed := 0, 0
	for _, summary := range sb.Games {
		if summary.Phase == games.PhaseScheduled {
			continue
		}
		tracked++
		if err := p.reconcileGame(ctx, summary.ID); err != nil {
			failed++
			logging.Error(logger, "reconcile game failed", err, logging.FieldGameID, summary.ID)
		}
	}
	p.recordSuccess(logger, start, tracked, failed)
}

// advanceDate keeps the tracking date monotonic and reports whether games should be reconciled.
func (p *Poller) advanceDate(ctx context.Context, logger *slog.Logger, feedDate string) bool {
	forced := p.rolloverRequested.Load()
	stored := p.store.Date()

	if stored == "" {
		if err := p.store.SetDate(feedDate); err != nil {
			logging.Error(logger, "set tracking date failed", err, logging.FieldDate, feedDate)
			return false
		}
		p.rolloverRequested.Store(false)
		return true
	}

	cmp, err := timeutil.CompareDates(feedDate, stored)
	if err != nil {
		logging.Error(logger, "compare feed date failed", err, logging.FieldDate, feedDate)
		return false
	}
	switch {
	case cmp < 0:
		logging.Warn(logger, "feed date behind tracking date; skipping tick",
			logging.FieldDate, feedDate,
			"tracking_date", stored,
		)
		return false
	case cmp > 0 || forced:
		// A pending request is served by this rollover, date-driven or not.
		p.rolloverRequested.Store(false)
		return p.rollover(ctx, logger, stored, feedDate)
	}
	return true
}

func (p *Poller) rollover(ctx context.Context, logger *slog.Logger, from, to string) bool {
	logging.Info(logger, "rolling over tracking date", "from", from, "to", to)
	for _, h := range p.hooks {
		if err := h.BeforeRollover(ctx, from, to); err != nil {
			logging.Error(logger, "rollover hook failed", err)
		}
	}
	if err := p.store.Reset(to); err != nil {
		logging.Error(logger, "reset event store failed", err, logging.FieldDate, to)
		return false
	}
	p.metrics.RecordRollover()
	return true
}

func (p *Poller) reconcileGame(ctx context.Context, gameID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic reconciling game %s: %v", gameID, r)
		}
	}()

	g, err := p.feed.FetchGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("fetch game %s: %w", gameID, err)
	}
	if err := p.reconciler.Reconcile(ctx, g); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("reconcile game %s: %w", gameID, err)
	}
	return nil
}

func (p *Poller) recordSuccess(logger *slog.Logger, start time.Time, tracked, failed int) {
	duration := p.now().Sub(start)
	p.metrics.RecordPollerCycle(duration, nil)
	date := p.store.Date()
	p.updateStatus(func(s *Status) {
		s.ConsecutiveFailures = 0
		s.LastError = ""
		s.LastSuccess = p.now()
		s.TrackingDate = date
		s.Games = tracked
		s.GameFailures = failed
	})
	logging.Debug(logger, "poll cycle complete",
		logging.FieldCount, tracked,
		logging.FieldDate, date,
		logging.FieldDurationMS, duration.Milliseconds(),
	)
}

func (p *Poller) recordFailure(logger *slog.Logger, start time.Time, err error) {
	p.metrics.RecordPollerCycle(p.now().Sub(start), err)
	p.updateStatus(func(s *Status) {
		s.ConsecutiveFailures++
		s.LastError = err.Error()
	})
	logging.Error(logger, "poll cycle failed", err)
}

func (p *Poller) updateStatus(fn func(*Status)) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	fn(&p.status)
}
