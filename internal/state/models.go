// Package state holds the bot's durable documents: the per-day event store,
// the channel registry and the OT challenge guesses and standings.
package state

import "slices"

// Field is one structured display column of a rendered event.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Content is the rendered, user-facing form of an event.
type Content struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Link        string  `json:"link,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Equal reports whether two renderings are identical.
func (c Content) Equal(o Content) bool {
	return c.Title == o.Title &&
		c.Description == o.Description &&
		c.Link == o.Link &&
		slices.Equal(c.Fields, o.Fields)
}

// EventRecord is a posted event and the messages that currently show it.
type EventRecord struct {
	Content
	// ScoreLine is the running score a goal was rendered with; it lets a goal
	// whose clock drifted between polls be matched to its existing key.
	ScoreLine string `json:"scoreLine,omitempty"`
	Retracted bool   `json:"retracted,omitempty"`
	// Messages maps channel id to message id, one message per channel.
	Messages map[string]string `json:"messages,omitempty"`
}

// Clone returns a deep copy.
func (r EventRecord) Clone() EventRecord {
	out := r
	out.Fields = slices.Clone(r.Fields)
	if r.Messages != nil {
		out.Messages = make(map[string]string, len(r.Messages))
		for ch, msg := range r.Messages {
			out.Messages[ch] = msg
		}
	}
	return out
}

// OTState tracks the OT challenge window for a game.
type OTState string

const (
	OTAbsent OTState = ""
	OTOpen   OTState = "open"
	OTClosed OTState = "closed"
)

// Event discriminators that are not goal time keys.
const (
	KeyStart    = "Start"
	KeyEnd      = "End"
	KeyShootout = "Shootout"
	KeyOT       = "OT"
)

// GameState is everything tracked for one game on the tracking date.
type GameState struct {
	Away    string                  `json:"away"`
	Home    string                  `json:"home"`
	Events  map[string]*EventRecord `json:"events"`
	OTState OTState                 `json:"otState,omitempty"`
	// Threads maps channel id to the OT challenge thread opened there.
	Threads map[string]string `json:"threads,omitempty"`
}

func newGameState(away, home string) *GameState {
	return &GameState{Away: away, Home: home, Events: make(map[string]*EventRecord)}
}

func (g *GameState) clone() *GameState {
	out := &GameState{
		Away:    g.Away,
		Home:    g.Home,
		OTState: g.OTState,
		Events:  make(map[string]*EventRecord, len(g.Events)),
	}
	for k, rec := range g.Events {
		c := rec.Clone()
		out.Events[k] = &c
	}
	if g.Threads != nil {
		out.Threads = make(map[string]string, len(g.Threads))
		for ch, th := range g.Threads {
			out.Threads[ch] = th
		}
	}
	return out
}

// Document is the persisted event store for one tracking date.
type Document struct {
	Date  string                `json:"date"`
	Games map[string]*GameState `json:"games"`
}

func (d Document) clone() Document {
	out := Document{Date: d.Date, Games: make(map[string]*GameState, len(d.Games))}
	for id, g := range d.Games {
		out.Games[id] = g.clone()
	}
	return out
}

// Guess is a user's pick for the overtime winner.
type Guess struct {
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Tally is a user's running OT challenge record.
type Tally struct {
	Guesses int `json:"guesses"`
	Correct int `json:"correct"`
}

// GuessDocument holds outstanding guesses and the all-time standings.
type GuessDocument struct {
	// Guesses is keyed by game id, then guild id, then user id.
	Guesses map[string]map[string]map[string]Guess `json:"guesses"`
	// Standings is keyed by guild id, then user id.
	Standings map[string]map[string]Tally `json:"standings"`
}
