package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/app/tracking"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/otchallenge"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/scoreboard"
)

const commandTimeout = 10 * time.Second

// Tracker registers scoreboard destinations.
type Tracker interface {
	StartTracking(guildID, channelID string) (tracking.Outcome, error)
	StopTracking(guildID string) (bool, error)
}

// Challenge is the OT challenge surface.
type Challenge interface {
	SubmitGuess(ctx context.Context, gameID, guildID, userID, playerRef string) (otchallenge.GuessResult, error)
	Standings(guildID string) []otchallenge.Standing
}

// ScoreboardSource fetches today's games.
type ScoreboardSource interface {
	FetchScoreboard(ctx context.Context) (games.Scoreboard, error)
}

// RolloverRequester forces a date rollover at the next poll.
type RolloverRequester interface {
	RequestRollover()
}

// TeamResolver maps user input to a team code.
type TeamResolver interface {
	Resolve(query string) (string, bool)
}

// Command is a parsed slash command invocation.
type Command struct {
	Name      string
	Sub       string
	GuildID   string
	ChannelID string
	UserID    string
	Admin     bool
	Options   map[string]string
}

// Router answers slash commands with plain-text replies.
type Router struct {
	tracker  Tracker
	ot       Challenge
	scores   ScoreboardSource
	rollover RolloverRequester
	teams    TeamResolver
	render   *scoreboard.Renderer
	logger   *slog.Logger
}

// RouterDeps groups the collaborators a Router needs.
type RouterDeps struct {
	Tracker  Tracker
	OT       Challenge
	Scores   ScoreboardSource
	Rollover RolloverRequester
	Teams    TeamResolver
	Renderer *scoreboard.Renderer
	Logger   *slog.Logger
}

// NewRouter builds a Router.
func NewRouter(deps RouterDeps) *Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	render := deps.Renderer
	if render == nil {
		render = scoreboard.NewRenderer(nil)
	}
	return &Router{
		tracker:  deps.Tracker,
		ot:       deps.OT,
		scores:   deps.Scores,
		rollover: deps.Rollover,
		teams:    deps.Teams,
		render:   render,
		logger:   logger,
	}
}

// Handle runs cmd and returns the reply text. It never returns an error;
// failures become short user-facing messages.
func (r *Router) Handle(ctx context.Context, cmd Command) string {
	if cmd.GuildID == "" {
		return "This command only works in a server."
	}
	if adminOnly(cmd.Name, cmd.Sub) && !cmd.Admin {
		return "You need the Manage Channels permission to do that."
	}

	switch cmd.Name + "/" + cmd.Sub {
	case cmdScores + "/" + subStart:
		return r.start(cmd)
	case cmdScores + "/" + subStop:
		return r.stop(cmd)
	case cmdScores + "/" + subScoreboard:
		return r.scoreboard(ctx)
	case cmdScores + "/" + subScore:
		return r.score(ctx, cmd.Options[optTeam])
	case cmdOT + "/" + subGuess:
		return r.guess(ctx, cmd)
	case cmdOT + "/" + subStandings:
		return r.standings(cmd.GuildID)
	case cmdOT + "/" + subRollover:
		r.rollover.RequestRollover()
		return "Rollover requested. It runs on the next poll."
	}
	return "Unknown command."
}

func (r *Router) start(cmd Command) string {
	outcome, err := r.tracker.StartTracking(cmd.GuildID, cmd.ChannelID)
	if err != nil {
		logging.Error(r.logger, "start tracking failed", err, logging.FieldGuildID, cmd.GuildID)
		return "Couldn't save that setting. Try again shortly."
	}
	switch outcome {
	case tracking.Moved:
		return fmt.Sprintf("Scoreboard moved to <#%s>.", cmd.ChannelID)
	case tracking.Unchanged:
		return fmt.Sprintf("Scoreboard already posts in <#%s>.", cmd.ChannelID)
	}
	return fmt.Sprintf("Scoreboard will post in <#%s>.", cmd.ChannelID)
}

func (r *Router) stop(cmd Command) string {
	removed, err := r.tracker.StopTracking(cmd.GuildID)
	if err != nil {
		logging.Error(r.logger, "stop tracking failed", err, logging.FieldGuildID, cmd.GuildID)
		return "Couldn't save that setting. Try again shortly."
	}
	if !removed {
		return "Scoreboard isn't running in this server."
	}
	return "Scoreboard stopped for this server."
}

func (r *Router) fetch(ctx context.Context) (games.Scoreboard, bool) {
	sb, err := r.scores.FetchScoreboard(ctx)
	if err != nil {
		logging.Error(logging.FromContext(ctx, r.logger), "scoreboard fetch failed", err)
		return games.Scoreboard{}, false
	}
	return sb, true
}

func (r *Router) scoreboard(ctx context.Context) string {
	sb, ok := r.fetch(ctx)
	if !ok {
		return feedUnavailable
	}
	return r.render.ScoreboardText(sb)
}

const feedUnavailable = "Couldn't reach the NHL feed. Try again shortly."

func (r *Router) resolveTeam(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	if r.teams == nil {
		return strings.ToUpper(query), true
	}
	return r.teams.Resolve(query)
}

func (r *Router) score(ctx context.Context, query string) string {
	code, ok := r.resolveTeam(query)
	if !ok {
		return fmt.Sprintf("Unknown team %q.", query)
	}
	sb, ok := r.fetch(ctx)
	if !ok {
		return feedUnavailable
	}
	g, ok := scoreboard.FindTeamGame(sb, code)
	if !ok {
		return fmt.Sprintf("%s has no game today.", code)
	}
	return r.render.ScoreText(g)
}

func (r *Router) guess(ctx context.Context, cmd Command) string {
	code, ok := r.resolveTeam(cmd.Options[optTeam])
	if !ok {
		return fmt.Sprintf("Unknown team %q.", cmd.Options[optTeam])
	}
	sb, ok := r.fetch(ctx)
	if !ok {
		return feedUnavailable
	}
	g, ok := scoreboard.FindTeamGame(sb, code)
	if !ok {
		return fmt.Sprintf("%s has no game today.", code)
	}

	ref := cmd.Options[optPlayer]
	res, err := r.ot.SubmitGuess(ctx, g.ID, cmd.GuildID, cmd.UserID, ref)
	if err != nil {
		logging.Error(logging.FromContext(ctx, r.logger), "submit guess failed", err,
			logging.FieldGameID, g.ID,
			logging.FieldUserID, cmd.UserID,
		)
		return "Couldn't record that guess. Try again shortly."
	}
	return guessReply(res, ref)
}

func guessReply(res otchallenge.GuessResult, ref string) string {
	if res.Accepted {
		if res.Replaced {
			return fmt.Sprintf("Guess updated: %s.", res.Player.FullName())
		}
		return fmt.Sprintf("Guess recorded: %s.", res.Player.FullName())
	}
	switch res.Reason {
	case otchallenge.ReasonNotRegistered:
		return "This server isn't tracking the scoreboard. Run /scores start first."
	case otchallenge.ReasonUnknownGame:
		return "That game isn't being tracked right now."
	case otchallenge.ReasonWindowClosed:
		return "The OT challenge for that game isn't open."
	case otchallenge.ReasonPlayerNotFound:
		return fmt.Sprintf("No player matching %q in that game.", ref)
	case otchallenge.ReasonMultipleMatches:
		names := make([]string, 0, len(res.Candidates))
		for _, p := range res.Candidates {
			names = append(names, p.FullName())
		}
		return fmt.Sprintf("%q matches %s. Be more specific.", ref, strings.Join(names, ", "))
	}
	return "That guess wasn't accepted."
}

func (r *Router) standings(guildID string) string {
	rows := r.ot.Standings(guildID)
	if len(rows) == 0 {
		return "No OT challenge results yet."
	}
	var b strings.Builder
	b.WriteString("OT Challenge standings\n")
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. <@%s> %d/%d\n", i+1, row.UserID, row.Correct, row.Guesses)
	}
	return strings.TrimRight(b.String(), "\n")
}

// responder is the slice of *discordgo.Session used to answer interactions.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// OnInteraction is registered with discordgo's AddHandler.
func (r *Router) OnInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	r.serve(context.Background(), s, i)
}

func (r *Router) serve(parent context.Context, s responder, i *discordgo.InteractionCreate) {
	cmd, ok := commandFromInteraction(i)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()
	logger := r.logger.With(
		slog.String(logging.FieldCommand, cmd.Name+" "+cmd.Sub),
		slog.String(logging.FieldGuildID, cmd.GuildID),
		slog.String(logging.FieldUserID, cmd.UserID),
	)
	ctx = logging.WithLogger(ctx, logger)

	var flags discordgo.MessageFlags
	if private(cmd) {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	}, discordgo.WithContext(ctx))
	if err != nil {
		logging.Error(logger, "defer interaction failed", err)
		return
	}

	reply := r.safeHandle(ctx, logger, cmd)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}, discordgo.WithContext(ctx)); err != nil {
		logging.Error(logger, "interaction reply failed", err)
	}
}

func (r *Router) safeHandle(ctx context.Context, logger *slog.Logger, cmd Command) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error(logger, "command panicked", fmt.Errorf("%v", rec))
			reply = "Something went wrong handling that command."
		}
	}()
	return r.Handle(ctx, cmd)
}

func private(cmd Command) bool {
	return (cmd.Name == cmdOT && cmd.Sub == subGuess) || adminOnly(cmd.Name, cmd.Sub)
}

func commandFromInteraction(i *discordgo.InteractionCreate) (Command, bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return Command{}, false
	}
	data := i.ApplicationCommandData()
	cmd := Command{
		Name:      data.Name,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Options:   make(map[string]string),
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		cmd.UserID = i.Member.User.ID
		cmd.Admin = i.Member.Permissions&manageChannels != 0
	case i.User != nil:
		cmd.UserID = i.User.ID
	}
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			continue
		}
		cmd.Sub = opt.Name
		for _, arg := range opt.Options {
			if arg.Type == discordgo.ApplicationCommandOptionString {
				cmd.Options[arg.Name] = arg.StringValue()
			}
		}
	}
	return cmd, true
}

// registrar is the slice of *discordgo.Session used to publish commands.
type registrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands publishes Commands for appID, to one guild when guildID
// is set and globally otherwise.
func RegisterCommands(ctx context.Context, s registrar, appID, guildID string) error {
	if appID == "" {
		return fmt.Errorf("register commands: missing application id")
	}
	if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
