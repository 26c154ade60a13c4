package tracking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingID is returned when a guild or channel id is blank.
var ErrMissingID = errors.New("guild and channel ids are required")

// Store defines the contract for persisting scoreboard destinations.
type Store interface {
	Set(guildID, channelID string) error
	Remove(guildID string) (bool, error)
	Lookup(guildID string) (string, bool)
	Destinations() []string
}

// Outcome describes what StartTracking changed.
type Outcome int

const (
	// Started registers a guild for the first time.
	Started Outcome = iota
	// Moved points an already registered guild at a new channel.
	Moved
	// Unchanged means the guild already posts to that channel.
	Unchanged
)

// Service coordinates scoreboard destinations using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// StartTracking makes channelID the guild's scoreboard destination. Events
// already posted elsewhere are not replayed into the new channel.
func (s *Service) StartTracking(guildID, channelID string) (Outcome, error) {
	guildID, channelID = strings.TrimSpace(guildID), strings.TrimSpace(channelID)
	if guildID == "" || channelID == "" {
		return Unchanged, ErrMissingID
	}
	current, ok := s.store.Lookup(guildID)
	if ok && current == channelID {
		return Unchanged, nil
	}
	if err := s.store.Set(guildID, channelID); err != nil {
		return Unchanged, fmt.Errorf("register %s: %w", guildID, err)
	}
	if ok {
		return Moved, nil
	}
	return Started, nil
}

// StopTracking removes the guild's destination and reports whether one existed.
func (s *Service) StopTracking(guildID string) (bool, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return false, ErrMissingID
	}
	removed, err := s.store.Remove(guildID)
	if err != nil {
		return false, fmt.Errorf("unregister %s: %w", guildID, err)
	}
	return removed, nil
}

// Channel returns the guild's current destination.
func (s *Service) Channel(guildID string) (string, bool) {
	return s.store.Lookup(guildID)
}

// Destinations returns every channel receiving scoreboard output.
func (s *Service) Destinations() []string {
	return s.store.Destinations()
}
