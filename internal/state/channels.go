package state

import (
	"fmt"
	"sort"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/statefile"
)

// ChannelRegistry maps each guild to the channel it wants scoreboard
// output in.
type ChannelRegistry struct {
	act    *actor
	file   *statefile.File[map[string]string]
	guilds map[string]string
}

// OpenChannelRegistry loads the registry at path.
func OpenChannelRegistry(path string) (*ChannelRegistry, error) {
	file := statefile.New[map[string]string](path)
	guilds, _, err := file.Load()
	if err != nil {
		return nil, err
	}
	if guilds == nil {
		guilds = make(map[string]string)
	}
	return &ChannelRegistry{act: newActor(), file: file, guilds: guilds}, nil
}

// Close stops the registry's goroutine.
func (r *ChannelRegistry) Close() {
	r.act.close()
}

// Set points guildID's scoreboard output at channelID.
func (r *ChannelRegistry) Set(guildID, channelID string) error {
	var err error
	if doErr := r.act.do(func() {
		if r.guilds[guildID] == channelID {
			return
		}
		r.guilds[guildID] = channelID
		err = r.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// Remove stops output for guildID. removed is false when it was not registered.
func (r *ChannelRegistry) Remove(guildID string) (removed bool, err error) {
	if doErr := r.act.do(func() {
		if _, ok := r.guilds[guildID]; !ok {
			return
		}
		delete(r.guilds, guildID)
		removed = true
		err = r.persist()
	}); doErr != nil {
		return false, doErr
	}
	return removed, err
}

// Lookup returns the channel registered for guildID.
func (r *ChannelRegistry) Lookup(guildID string) (string, bool) {
	var (
		ch string
		ok bool
	)
	_ = r.act.do(func() { ch, ok = r.guilds[guildID] })
	return ch, ok
}

// Destinations lists every registered channel in sorted order.
func (r *ChannelRegistry) Destinations() []string {
	seen := make(map[string]struct{})
	var out []string
	_ = r.act.do(func() {
		for _, ch := range r.guilds {
			if _, dup := seen[ch]; dup {
				continue
			}
			seen[ch] = struct{}{}
			out = append(out, ch)
		}
	})
	sort.Strings(out)
	return out
}

func (r *ChannelRegistry) persist() error {
	if err := r.file.Save(r.guilds); err != nil {
		return fmt.Errorf("state: persist channels: %w", err)
	}
	return nil
}
