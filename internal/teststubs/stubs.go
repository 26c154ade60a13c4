package teststubs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/players"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

// StubFeed is a scripted feed.Feed. Each FetchScoreboard call returns the
// next scoreboard in Scoreboards, repeating the last one once exhausted.
type StubFeed struct {
	mu          sync.Mutex
	Scoreboards []games.Scoreboard
	Games       map[string]games.Game
	Recaps      map[string]string
	Rosters     map[string][]players.Player
	Err         error
	GameErr     map[string]error

	Calls  atomic.Int32
	Notify chan struct{}
	next   int
}

// SetGame replaces the snapshot returned for g.ID.
func (s *StubFeed) SetGame(g games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Games == nil {
		s.Games = make(map[string]games.Game)
	}
	s.Games[g.ID] = g
}

// SetRecap sets the recap link returned for gameID.
func (s *StubFeed) SetRecap(gameID, link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Recaps == nil {
		s.Recaps = make(map[string]string)
	}
	s.Recaps[gameID] = link
}

// FetchScoreboard returns the next scripted scoreboard while tracking calls.
func (s *StubFeed) FetchScoreboard(ctx context.Context) (games.Scoreboard, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return games.Scoreboard{}, s.Err
	}
	if len(s.Scoreboards) == 0 {
		return games.Scoreboard{}, nil
	}
	idx := s.next
	if idx >= len(s.Scoreboards) {
		idx = len(s.Scoreboards) - 1
	} else {
		s.next++
	}
	return s.Scoreboards[idx], nil
}

// FetchGame returns the configured snapshot for id.
func (s *StubFeed) FetchGame(ctx context.Context, id string) (games.Game, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.GameErr[id]; err != nil {
		return games.Game{}, err
	}
	g, ok := s.Games[id]
	if !ok {
		return games.Game{}, fmt.Errorf("stub feed: unknown game %s", id)
	}
	return g, nil
}

// FetchRecapLink returns the configured recap, or "".
func (s *StubFeed) FetchRecapLink(ctx context.Context, id string) (string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Recaps[id], nil
}

// FetchRoster returns the configured roster.
func (s *StubFeed) FetchRoster(ctx context.Context, id string) ([]players.Player, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.Rosters[id]
	if !ok {
		return nil, fmt.Errorf("stub feed: no roster for %s", id)
	}
	return roster, nil
}

// PostedMessage is one message sent through StubPoster.
type PostedMessage struct {
	ChannelID string
	MessageID string
	Content   state.Content
}

// StubPoster is an in-memory notify.Poster that records all traffic.
type StubPoster struct {
	mu       sync.Mutex
	Sends    []PostedMessage
	Edits    []PostedMessage
	Threads  map[string]string
	Locked   map[string]bool
	SendErr  error
	EditErr  error
	SendFn   func(channelID string) error
	ThreadFn func(channelID string) error
	seq      int
}

// Send records a new message and returns a sequential id.
func (p *StubPoster) Send(ctx context.Context, channelID string, c state.Content) (string, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SendErr != nil {
		return "", p.SendErr
	}
	if p.SendFn != nil {
		if err := p.SendFn(channelID); err != nil {
			return "", err
		}
	}
	p.seq++
	id := fmt.Sprintf("m%d", p.seq)
	p.Sends = append(p.Sends, PostedMessage{ChannelID: channelID, MessageID: id, Content: c})
	return id, nil
}

// Edit records an edit.
func (p *StubPoster) Edit(ctx context.Context, channelID, messageID string, c state.Content) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.EditErr != nil {
		return p.EditErr
	}
	p.Edits = append(p.Edits, PostedMessage{ChannelID: channelID, MessageID: messageID, Content: c})
	return nil
}

// StartThread records a thread keyed by its parent message.
func (p *StubPoster) StartThread(ctx context.Context, channelID, messageID, name string) (string, error) {
	_ = ctx
	_ = name
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ThreadFn != nil {
		if err := p.ThreadFn(channelID); err != nil {
			return "", err
		}
	}
	if p.Threads == nil {
		p.Threads = make(map[string]string)
	}
	id := "t-" + messageID
	p.Threads[id] = channelID
	return id, nil
}

// SetThreadLocked records the lock state of a thread.
func (p *StubPoster) SetThreadLocked(ctx context.Context, threadID string, locked bool) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Locked == nil {
		p.Locked = make(map[string]bool)
	}
	p.Locked[threadID] = locked
	return nil
}

// SendCount returns the number of sends so far.
func (p *StubPoster) SendCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sends)
}

// EditCount returns the number of edits so far.
func (p *StubPoster) EditCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Edits)
}

// LastEdit returns the most recent edit.
func (p *StubPoster) LastEdit() (PostedMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Edits) == 0 {
		return PostedMessage{}, false
	}
	return p.Edits[len(p.Edits)-1], true
}

// ThreadLocked reports the recorded lock state of a thread.
func (p *StubPoster) ThreadLocked(threadID string) (locked, known bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	locked, known = p.Locked[threadID]
	return locked, known
}

// StubEscalator records maintainer escalations.
type StubEscalator struct {
	mu       sync.Mutex
	Messages []string
	Err      error
}

// Escalate records msg.
func (e *StubEscalator) Escalate(ctx context.Context, msg string) error {
	_ = ctx
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Messages = append(e.Messages, msg)
	return e.Err
}

// Count returns the number of escalations.
func (e *StubEscalator) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Messages)
}

// StubDestinations is a fixed notify.Destinations.
type StubDestinations []string

// Destinations returns the configured channels.
func (d StubDestinations) Destinations() []string {
	return append([]string(nil), d...)
}
