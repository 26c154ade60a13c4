package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/app/tracking"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/audit"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/discord"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/teams"
	httpserver "github.com/preston-bernstein/nhl-scoreboard-bot/internal/http"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/http/handlers"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/http/middleware"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/mirror"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/notify"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/otchallenge"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/poller"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/scoreboard"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// gateway is the slice of *discordgo.Session the server opens and closes.
type gateway interface {
	Open() error
	Close() error
}

var dialStream = mirror.Dial

// stores groups the persisted documents.
type stores struct {
	events   *state.EventStore
	channels *state.ChannelRegistry
	guesses  *state.GuessStore
}

func (s *Server) wire(ctx context.Context) error {
	cfg := s.cfg

	registry, err := loadTeams(cfg.Storage.TeamsFile)
	if err != nil {
		return err
	}
	nhl := newFeedFactory(s.logger, s.metrics).build(cfg.Feed)

	st, err := s.openStores()
	if err != nil {
		return err
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	poster := discord.NewPoster(session, cfg.Discord.SendsPerSecond, cfg.Discord.SendBurst)

	sinkOpts, auditLog, err := s.sinkOptions(ctx, poster)
	if err != nil {
		return err
	}
	sink := notify.NewSink(st.events, st.channels, poster, sinkOpts...)

	reconciler := scoreboard.NewReconciler(st.events, sink, nhl, registry, scoreboard.Options{
		ChallengeThreshold: time.Duration(cfg.OTChallenge.ThresholdMinutes) * time.Minute,
		Logger:             s.logger,
	})

	coordOpts := []otchallenge.Option{
		otchallenge.WithLogger(s.logger),
		otchallenge.WithMetrics(s.metrics),
	}
	if esc := discord.NewEscalator(poster, cfg.Discord.MaintainerChannel); esc != nil {
		coordOpts = append(coordOpts, otchallenge.WithEscalator(esc))
	}
	coordinator := otchallenge.NewCoordinator(nhl, st.guesses, st.events, st.channels, coordOpts...)

	plr := poller.New(nhl, reconciler, st.events,
		poller.WithLogger(s.logger),
		poller.WithMetrics(s.metrics),
		poller.WithInterval(cfg.PollInterval),
		poller.WithRolloverHooks(coordinator, sink),
	)
	s.poller = plr

	router := discord.NewRouter(discord.RouterDeps{
		Tracker:  tracking.NewService(st.channels),
		OT:       coordinator,
		Scores:   nhl,
		Rollover: plr,
		Teams:    registry,
		Renderer: scoreboard.NewRenderer(registry),
		Logger:   s.logger,
	})
	session.AddHandler(router.OnInteraction)
	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logging.Info(s.logger, "discord ready",
			slog.String("user", r.User.Username),
			slog.Int(logging.FieldCount, len(r.Guilds)),
		)
	})
	if cfg.Discord.Token == "" {
		logging.Warn(s.logger, "DISCORD_TOKEN not set, chat output will fail")
	} else {
		s.gateway = session
		s.register = func(ctx context.Context) error {
			appID := cfg.Discord.AppID
			if appID == "" && session.State != nil && session.State.User != nil {
				appID = session.State.User.ID
			}
			return discord.RegisterCommands(ctx, session, appID, cfg.Discord.CommandGuildID)
		}
	}

	s.httpServer = s.buildHTTPServer(st.events, auditLog, plr)
	return nil
}

func loadTeams(path string) (*teams.Registry, error) {
	if path == "" {
		return teams.Default()
	}
	registry, err := teams.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load teams file: %w", err)
	}
	return registry, nil
}

func (s *Server) openStores() (stores, error) {
	storage := s.cfg.Storage
	events, err := state.OpenEventStore(storage.EventsPath())
	if err != nil {
		return stores{}, fmt.Errorf("open event store: %w", err)
	}
	s.addCloser("events", func() error { events.Close(); return nil })

	channels, err := state.OpenChannelRegistry(storage.ChannelsPath())
	if err != nil {
		return stores{}, fmt.Errorf("open channel registry: %w", err)
	}
	s.addCloser("channels", func() error { channels.Close(); return nil })

	guesses, err := state.OpenGuessStore(storage.GuessesPath())
	if err != nil {
		return stores{}, fmt.Errorf("open guess store: %w", err)
	}
	s.addCloser("guesses", func() error { guesses.Close(); return nil })

	return stores{events: events, channels: channels, guesses: guesses}, nil
}

// sinkOptions builds the sink's shadow destinations and audit log. A redis
// mirror that cannot be reached is skipped; an audit log that cannot be
// opened is fatal.
func (s *Server) sinkOptions(ctx context.Context, poster notify.Poster) ([]notify.Option, *audit.Log, error) {
	storage := s.cfg.Storage
	opts := []notify.Option{
		notify.WithLogger(s.logger),
		notify.WithMetrics(s.metrics),
	}

	var mirrors []notify.Mirror
	if debug := notify.NewDebugMirror(poster, s.cfg.Discord.DebugChannels); debug != nil {
		mirrors = append(mirrors, debug)
	}
	if storage.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		stream, closeFn, err := dialStream(dialCtx, storage.RedisURL, storage.RedisStream)
		cancel()
		if err != nil {
			logging.Warn(s.logger, "redis mirror disabled", "err", err)
		} else {
			mirrors = append(mirrors, stream)
			s.addCloser("redis", closeFn)
		}
	}
	if len(mirrors) > 0 {
		opts = append(opts, notify.WithMirrors(mirrors...))
	}

	if storage.AuditDBPath == "" {
		return opts, nil, nil
	}
	auditLog, err := audit.Open(storage.AuditDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}
	s.addCloser("audit", auditLog.Close)
	return append(opts, notify.WithAuditor(auditLog)), auditLog, nil
}

func (s *Server) buildHTTPServer(events handlers.StateSource, auditLog *audit.Log, plr Poller) httpServer {
	var auditSource handlers.AuditSource
	if auditLog != nil {
		auditSource = auditLog
	}
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(events, auditSource, s.logger, statusFn)
	var admin *handlers.AdminHandler
	if s.cfg.AdminToken != "" {
		rollover, _ := plr.(handlers.RolloverRequester)
		admin = handlers.NewAdminHandler(rollover, s.cfg.AdminToken, s.logger)
	}
	router := httpserver.NewRouter(handler, admin)

	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      middleware.LoggingMiddleware(s.logger, s.metrics, router),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}
}
