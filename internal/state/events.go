package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/statefile"
)

var (
	// ErrUnknownGame is returned when a game has not been registered with EnsureGame.
	ErrUnknownGame = errors.New("state: unknown game")
	// ErrUnknownEvent is returned when renaming a key that does not exist.
	ErrUnknownEvent = errors.New("state: unknown event")
)

// EventStore is the reconciliation state for the current tracking date.
// Every mutation is written through to disk before it returns.
type EventStore struct {
	act  *actor
	file *statefile.File[Document]
	doc  Document
}

// OpenEventStore loads the store at path, starting empty when the file is
// missing. An empty path keeps the store in memory only.
func OpenEventStore(path string) (*EventStore, error) {
	file := statefile.New[Document](path)
	doc, _, err := file.Load()
	if err != nil {
		return nil, err
	}
	if doc.Games == nil {
		doc.Games = make(map[string]*GameState)
	}
	for _, g := range doc.Games {
		if g.Events == nil {
			g.Events = make(map[string]*EventRecord)
		}
	}
	return &EventStore{act: newActor(), file: file, doc: doc}, nil
}

// Close stops the store's goroutine.
func (s *EventStore) Close() {
	s.act.close()
}

func (s *EventStore) persist() error {
	if err := s.file.Save(s.doc); err != nil {
		return fmt.Errorf("state: persist events: %w", err)
	}
	return nil
}

// Date returns the tracking date, "" before the first poll.
func (s *EventStore) Date() string {
	var date string
	_ = s.act.do(func() { date = s.doc.Date })
	return date
}

// SetDate stamps the tracking date without touching tracked games.
func (s *EventStore) SetDate(date string) error {
	var err error
	if doErr := s.act.do(func() {
		s.doc.Date = date
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// Reset replaces the whole store with an empty one stamped with date.
func (s *EventStore) Reset(date string) error {
	var err error
	if doErr := s.act.do(func() {
		s.doc = Document{Date: date, Games: make(map[string]*GameState)}
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// EnsureGame registers a game so events can be stored for it.
func (s *EventStore) EnsureGame(gameID, away, home string) error {
	var err error
	if doErr := s.act.do(func() {
		if _, ok := s.doc.Games[gameID]; ok {
			return
		}
		s.doc.Games[gameID] = newGameState(away, home)
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// HasGame reports whether the game is tracked on the current date.
func (s *EventStore) HasGame(gameID string) bool {
	var ok bool
	_ = s.act.do(func() { _, ok = s.doc.Games[gameID] })
	return ok
}

// GameIDs lists tracked games in sorted order.
func (s *EventStore) GameIDs() []string {
	var ids []string
	_ = s.act.do(func() {
		for id := range s.doc.Games {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids
}

// GetEvent returns a copy of the stored record for key.
func (s *EventStore) GetEvent(gameID, key string) (EventRecord, bool) {
	var (
		rec EventRecord
		ok  bool
	)
	_ = s.act.do(func() {
		g, found := s.doc.Games[gameID]
		if !found {
			return
		}
		if r, found := g.Events[key]; found {
			rec, ok = r.Clone(), true
		}
	})
	return rec, ok
}

// PutEvent stores rec under key, replacing any previous record.
func (s *EventStore) PutEvent(gameID, key string, rec EventRecord) error {
	var err error
	if doErr := s.act.do(func() {
		g, ok := s.doc.Games[gameID]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
			return
		}
		c := rec.Clone()
		g.Events[key] = &c
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// RenameEvent moves the record at from to to. The record keeps its
// content and message ids.
func (s *EventStore) RenameEvent(gameID, from, to string) error {
	var err error
	if doErr := s.act.do(func() {
		g, ok := s.doc.Games[gameID]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
			return
		}
		rec, ok := g.Events[from]
		if !ok {
			err = fmt.Errorf("%w: %s/%s", ErrUnknownEvent, gameID, from)
			return
		}
		if from == to {
			return
		}
		delete(g.Events, from)
		g.Events[to] = rec
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// EventKeys lists a game's event keys in sorted order.
func (s *EventStore) EventKeys(gameID string) []string {
	var keys []string
	_ = s.act.do(func() {
		g, ok := s.doc.Games[gameID]
		if !ok {
			return
		}
		for k := range g.Events {
			keys = append(keys, k)
		}
	})
	sort.Strings(keys)
	return keys
}

// OTState returns the game's OT challenge window state.
func (s *EventStore) OTState(gameID string) OTState {
	var st OTState
	_ = s.act.do(func() {
		if g, ok := s.doc.Games[gameID]; ok {
			st = g.OTState
		}
	})
	return st
}

// SetOTState records a window transition.
func (s *EventStore) SetOTState(gameID string, st OTState) error {
	var err error
	if doErr := s.act.do(func() {
		g, ok := s.doc.Games[gameID]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
			return
		}
		if g.OTState == st {
			return
		}
		g.OTState = st
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// Threads returns the OT challenge threads opened for a game, by channel.
func (s *EventStore) Threads(gameID string) map[string]string {
	out := make(map[string]string)
	_ = s.act.do(func() {
		if g, ok := s.doc.Games[gameID]; ok {
			for ch, th := range g.Threads {
				out[ch] = th
			}
		}
	})
	return out
}

// SetThread records the thread opened in channelID.
func (s *EventStore) SetThread(gameID, channelID, threadID string) error {
	var err error
	if doErr := s.act.do(func() {
		g, ok := s.doc.Games[gameID]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
			return
		}
		if g.Threads == nil {
			g.Threads = make(map[string]string)
		}
		g.Threads[channelID] = threadID
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// Snapshot returns a deep copy of the whole document.
func (s *EventStore) Snapshot() Document {
	var doc Document
	_ = s.act.do(func() { doc = s.doc.clone() })
	return doc
}
