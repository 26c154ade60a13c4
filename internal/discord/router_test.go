package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/app/tracking"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/teams"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/otchallenge"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/teststubs"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/testutil"
)

type fakeChallenge struct {
	gotGame string
	result  otchallenge.GuessResult
	err     error
	table   []otchallenge.Standing
}

func (f *fakeChallenge) SubmitGuess(ctx context.Context, gameID, guildID, userID, playerRef string) (otchallenge.GuessResult, error) {
	f.gotGame = gameID
	return f.result, f.err
}

func (f *fakeChallenge) Standings(string) []otchallenge.Standing { return f.table }

type fakeRollover struct{ requests int }

func (f *fakeRollover) RequestRollover() { f.requests++ }

type routerFixture struct {
	router   *Router
	feed     *teststubs.StubFeed
	ot       *fakeChallenge
	rollover *fakeRollover
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	reg, err := state.OpenChannelRegistry("")
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(reg.Close)
	names, err := teams.Default()
	if err != nil {
		t.Fatalf("teams: %v", err)
	}

	live := testutil.LiveGame("g1")
	live.Away.Score, live.Home.Score = 2, 1
	feed := &teststubs.StubFeed{Scoreboards: []games.Scoreboard{{FocusDate: "2024-01-10", Games: []games.Game{live}}}}
	ot := &fakeChallenge{}
	rollover := &fakeRollover{}
	router := NewRouter(RouterDeps{
		Tracker:  tracking.NewService(reg),
		OT:       ot,
		Scores:   feed,
		Rollover: rollover,
		Teams:    names,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &routerFixture{router: router, feed: feed, ot: ot, rollover: rollover}
}

func cmd(name, sub string, opts map[string]string) Command {
	return Command{Name: name, Sub: sub, GuildID: "guild", ChannelID: "c1", UserID: "u1", Admin: true, Options: opts}
}

func TestRouterTracking(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	if got := f.router.Handle(ctx, cmd(cmdScores, subStart, nil)); got != "Scoreboard will post in <#c1>." {
		t.Fatalf("unexpected start reply %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subStart, nil)); got != "Scoreboard already posts in <#c1>." {
		t.Fatalf("unexpected repeat reply %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subStop, nil)); got != "Scoreboard stopped for this server." {
		t.Fatalf("unexpected stop reply %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subStop, nil)); got != "Scoreboard isn't running in this server." {
		t.Fatalf("unexpected second stop reply %q", got)
	}
}

func TestRouterRejectsNonAdminsAndDMs(t *testing.T) {
	f := newRouterFixture(t)
	c := cmd(cmdOT, subRollover, nil)
	c.Admin = false
	if got := f.router.Handle(context.Background(), c); !strings.Contains(got, "Manage Channels") {
		t.Fatalf("expected permission reply, got %q", got)
	}
	if f.rollover.requests != 0 {
		t.Fatal("rollover must not run for non-admins")
	}

	c = cmd(cmdScores, subScoreboard, nil)
	c.GuildID = ""
	if got := f.router.Handle(context.Background(), c); got != "This command only works in a server." {
		t.Fatalf("unexpected DM reply %q", got)
	}
}

func TestRouterScores(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	if got := f.router.Handle(ctx, cmd(cmdScores, subScoreboard, nil)); got != "Current score: TOR 2, MTL 1 (1st)" {
		t.Fatalf("unexpected scoreboard %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subScore, map[string]string{optTeam: "habs"})); got != "Current score: TOR 2, MTL 1 (1st)" {
		t.Fatalf("unexpected score %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subScore, map[string]string{optTeam: "oilers"})); got != "EDM has no game today." {
		t.Fatalf("unexpected no-game reply %q", got)
	}
	if got := f.router.Handle(ctx, cmd(cmdScores, subScore, map[string]string{optTeam: "quakers"})); got != `Unknown team "quakers".` {
		t.Fatalf("unexpected unknown-team reply %q", got)
	}

	f.feed.Err = errors.New("down")
	if got := f.router.Handle(ctx, cmd(cmdScores, subScoreboard, nil)); got != feedUnavailable {
		t.Fatalf("expected feed error reply, got %q", got)
	}
}

func TestRouterGuessReplies(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	guess := cmd(cmdOT, subGuess, map[string]string{optTeam: "leafs", optPlayer: "jake"})

	f.ot.result = otchallenge.GuessResult{Accepted: true, Player: players.Player{FirstName: "Jake", LastName: "McCabe"}}
	if got := f.router.Handle(ctx, guess); got != "Guess recorded: Jake McCabe." {
		t.Fatalf("unexpected reply %q", got)
	}
	if f.ot.gotGame != "g1" {
		t.Fatalf("expected guess routed to g1, got %q", f.ot.gotGame)
	}

	f.ot.result = otchallenge.GuessResult{
		Reason:     otchallenge.ReasonMultipleMatches,
		Candidates: []players.Player{{FirstName: "Jake", LastName: "Evans"}, {FirstName: "Jake", LastName: "McCabe"}},
	}
	if got := f.router.Handle(ctx, guess); got != `"jake" matches Jake Evans, Jake McCabe. Be more specific.` {
		t.Fatalf("unexpected reply %q", got)
	}

	f.ot.result = otchallenge.GuessResult{Reason: otchallenge.ReasonWindowClosed}
	if got := f.router.Handle(ctx, guess); got != "The OT challenge for that game isn't open." {
		t.Fatalf("unexpected reply %q", got)
	}

	f.ot.err = errors.New("roster down")
	if got := f.router.Handle(ctx, guess); !strings.HasPrefix(got, "Couldn't record") {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestRouterStandingsAndRollover(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	if got := f.router.Handle(ctx, cmd(cmdOT, subStandings, nil)); got != "No OT challenge results yet." {
		t.Fatalf("unexpected empty standings %q", got)
	}
	f.ot.table = []otchallenge.Standing{{UserID: "u1", Guesses: 3, Correct: 2}, {UserID: "u2", Guesses: 1}}
	want := "OT Challenge standings\n1. <@u1> 2/3\n2. <@u2> 0/1"
	if got := f.router.Handle(ctx, cmd(cmdOT, subStandings, nil)); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	f.router.Handle(ctx, cmd(cmdOT, subRollover, nil))
	if f.rollover.requests != 1 {
		t.Fatal("expected rollover requested")
	}
}

func TestCommandFromInteraction(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "guild",
		ChannelID: "c1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "u1"}, Permissions: discordgo.PermissionManageChannels},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: cmdOT,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: subGuess,
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: optTeam, Type: discordgo.ApplicationCommandOptionString, Value: "TOR"},
					{Name: optPlayer, Type: discordgo.ApplicationCommandOptionString, Value: "Matthews"},
				},
			}},
		},
	}}

	c, ok := commandFromInteraction(i)
	if !ok {
		t.Fatal("expected command")
	}
	if c.Name != cmdOT || c.Sub != subGuess || c.UserID != "u1" || !c.Admin {
		t.Fatalf("unexpected command %+v", c)
	}
	if c.Options[optTeam] != "TOR" || c.Options[optPlayer] != "Matthews" {
		t.Fatalf("unexpected options %+v", c.Options)
	}

	ping := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}}
	if _, ok := commandFromInteraction(ping); ok {
		t.Fatal("expected non-command interactions ignored")
	}
}

type fakeResponder struct {
	deferred *discordgo.InteractionResponse
	reply    string
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.deferred = resp
	return nil
}

func (f *fakeResponder) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.reply = *edit.Content
	return &discordgo.Message{}, nil
}

func TestServeDefersThenReplies(t *testing.T) {
	f := newRouterFixture(t)
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "guild",
		User:    &discordgo.User{ID: "u1"},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    cmdOT,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: subRollover, Type: discordgo.ApplicationCommandOptionSubCommand}},
		},
	}}
	resp := &fakeResponder{}
	f.router.serve(context.Background(), resp, i)

	if resp.deferred == nil || resp.deferred.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Fatalf("expected deferred response, got %+v", resp.deferred)
	}
	if resp.deferred.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatal("admin replies should be ephemeral")
	}
	if !strings.Contains(resp.reply, "Manage Channels") {
		t.Fatalf("expected permission reply, got %q", resp.reply)
	}
}

type fakeRegistrar struct {
	appID, guildID string
	count          int
}

func (f *fakeRegistrar) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.appID, f.guildID, f.count = appID, guildID, len(cmds)
	return cmds, nil
}

func TestRegisterCommands(t *testing.T) {
	reg := &fakeRegistrar{}
	if err := RegisterCommands(context.Background(), reg, "app", "guild"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.appID != "app" || reg.guildID != "guild" || reg.count != 2 {
		t.Fatalf("unexpected registration %+v", reg)
	}
	if err := RegisterCommands(context.Background(), reg, "", ""); err == nil {
		t.Fatal("expected error without app id")
	}
}
