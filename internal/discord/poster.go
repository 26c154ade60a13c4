// Package discord adapts discordgo to the bot's chat transport and serves
// its slash commands.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

const (
	defaultSendsPerSecond = 5
	threadArchiveMinutes  = 1440
)

// ErrNoMessage is returned when Discord accepts a send but returns no message.
var ErrNoMessage = errors.New("discord returned no message")

// session is the slice of *discordgo.Session the bot calls.
type session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageThreadStart(channelID, messageID string, name string, archiveDuration int, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Poster sends and edits scoreboard embeds. Every REST call waits on a
// shared limiter so bursts queue locally instead of tripping Discord's
// rate limits.
type Poster struct {
	session session
	limiter *rate.Limiter
}

// NewPoster wraps a session. Non-positive rates fall back to the default.
func NewPoster(s session, perSecond, burst int) *Poster {
	if perSecond <= 0 {
		perSecond = defaultSendsPerSecond
	}
	if burst <= 0 {
		burst = perSecond
	}
	return &Poster{
		session: s,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (p *Poster) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("discord send limiter: %w", err)
	}
	return nil
}

// Send posts c as an embed and returns the new message id.
func (p *Poster) Send(ctx context.Context, channelID string, c state.Content) (string, error) {
	if err := p.wait(ctx); err != nil {
		return "", err
	}
	msg, err := p.session.ChannelMessageSendEmbed(channelID, toEmbed(c), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", channelID, err)
	}
	if msg == nil {
		return "", ErrNoMessage
	}
	return msg.ID, nil
}

// Edit replaces the embed on an existing message.
func (p *Poster) Edit(ctx context.Context, channelID, messageID string, c state.Content) error {
	if err := p.wait(ctx); err != nil {
		return err
	}
	if _, err := p.session.ChannelMessageEditEmbed(channelID, messageID, toEmbed(c), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit %s/%s: %w", channelID, messageID, err)
	}
	return nil
}

// StartThread opens a public thread on a message.
func (p *Poster) StartThread(ctx context.Context, channelID, messageID, name string) (string, error) {
	if err := p.wait(ctx); err != nil {
		return "", err
	}
	ch, err := p.session.MessageThreadStart(channelID, messageID, name, threadArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("start thread on %s/%s: %w", channelID, messageID, err)
	}
	if ch == nil {
		return "", ErrNoMessage
	}
	return ch.ID, nil
}

// SetThreadLocked locks or unlocks a thread.
func (p *Poster) SetThreadLocked(ctx context.Context, threadID string, locked bool) error {
	if err := p.wait(ctx); err != nil {
		return err
	}
	edit := &discordgo.ChannelEdit{Locked: &locked}
	if _, err := p.session.ChannelEdit(threadID, edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("lock thread %s: %w", threadID, err)
	}
	return nil
}

func toEmbed(c state.Content) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       c.Title,
		Description: c.Description,
		URL:         c.Link,
	}
	for _, f := range c.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

// Escalator posts operational problems to a maintainer channel.
type Escalator struct {
	poster    *Poster
	channelID string
}

// NewEscalator returns nil when no maintainer channel is configured.
func NewEscalator(p *Poster, channelID string) *Escalator {
	if p == nil || channelID == "" {
		return nil
	}
	return &Escalator{poster: p, channelID: channelID}
}

// Escalate sends msg as plain text. A nil Escalator drops the message.
func (e *Escalator) Escalate(ctx context.Context, msg string) error {
	if e == nil {
		return nil
	}
	if err := e.poster.wait(ctx); err != nil {
		return err
	}
	if _, err := e.poster.session.ChannelMessageSend(e.channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("escalate to %s: %w", e.channelID, err)
	}
	return nil
}
