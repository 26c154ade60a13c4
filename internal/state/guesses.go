package state

import (
	"fmt"
	"sort"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/statefile"
)

// GuessStore holds outstanding OT challenge guesses and the standings they
// are folded into.
type GuessStore struct {
	act  *actor
	file *statefile.File[GuessDocument]
	doc  GuessDocument
}

// OpenGuessStore loads the guess document at path.
func OpenGuessStore(path string) (*GuessStore, error) {
	file := statefile.New[GuessDocument](path)
	doc, _, err := file.Load()
	if err != nil {
		return nil, err
	}
	if doc.Guesses == nil {
		doc.Guesses = make(map[string]map[string]map[string]Guess)
	}
	if doc.Standings == nil {
		doc.Standings = make(map[string]map[string]Tally)
	}
	return &GuessStore{act: newActor(), file: file, doc: doc}, nil
}

// Close stops the store's goroutine.
func (s *GuessStore) Close() {
	s.act.close()
}

func (s *GuessStore) persist() error {
	if err := s.file.Save(s.doc); err != nil {
		return fmt.Errorf("state: persist guesses: %w", err)
	}
	return nil
}

// PutGuess records userID's pick for gameID in guildID. A later guess
// replaces an earlier one. replaced reports whether one existed.
func (s *GuessStore) PutGuess(gameID, guildID, userID string, g Guess) (replaced bool, err error) {
	if doErr := s.act.do(func() {
		byGuild, ok := s.doc.Guesses[gameID]
		if !ok {
			byGuild = make(map[string]map[string]Guess)
			s.doc.Guesses[gameID] = byGuild
		}
		byUser, ok := byGuild[guildID]
		if !ok {
			byUser = make(map[string]Guess)
			byGuild[guildID] = byUser
		}
		_, replaced = byUser[userID]
		byUser[userID] = g
		err = s.persist()
	}); doErr != nil {
		return false, doErr
	}
	return replaced, err
}

// GamesWithGuesses lists games that have outstanding guesses.
func (s *GuessStore) GamesWithGuesses() []string {
	var ids []string
	_ = s.act.do(func() {
		for id, byGuild := range s.doc.Guesses {
			if len(byGuild) > 0 {
				ids = append(ids, id)
			}
		}
	})
	sort.Strings(ids)
	return ids
}

// Guesses returns a copy of gameID's guesses keyed by guild then user.
func (s *GuessStore) Guesses(gameID string) map[string]map[string]Guess {
	out := make(map[string]map[string]Guess)
	_ = s.act.do(func() {
		for guild, byUser := range s.doc.Guesses[gameID] {
			cp := make(map[string]Guess, len(byUser))
			for u, g := range byUser {
				cp[u] = g
			}
			out[guild] = cp
		}
	})
	return out
}

// DeleteGame drops gameID's guesses without scoring them.
func (s *GuessStore) DeleteGame(gameID string) error {
	var err error
	if doErr := s.act.do(func() {
		if _, ok := s.doc.Guesses[gameID]; !ok {
			return
		}
		delete(s.doc.Guesses, gameID)
		err = s.persist()
	}); doErr != nil {
		return doErr
	}
	return err
}

// ApplyResult scores every guess for gameID against the overtime winner
// and removes them, in one step.
func (s *GuessStore) ApplyResult(gameID string, scorerID int) (scored int, err error) {
	if doErr := s.act.do(func() {
		byGuild, ok := s.doc.Guesses[gameID]
		if !ok {
			return
		}
		for guild, byUser := range byGuild {
			table, ok := s.doc.Standings[guild]
			if !ok {
				table = make(map[string]Tally)
				s.doc.Standings[guild] = table
			}
			for user, g := range byUser {
				t := table[user]
				t.Guesses++
				if g.PlayerID == scorerID {
					t.Correct++
				}
				table[user] = t
				scored++
			}
		}
		delete(s.doc.Guesses, gameID)
		err = s.persist()
	}); doErr != nil {
		return 0, doErr
	}
	return scored, err
}

// Standings returns a copy of guildID's tallies keyed by user.
func (s *GuessStore) Standings(guildID string) map[string]Tally {
	out := make(map[string]Tally)
	_ = s.act.do(func() {
		for u, t := range s.doc.Standings[guildID] {
			out[u] = t
		}
	})
	return out
}
