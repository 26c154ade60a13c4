package state

import (
	"path/filepath"
	"testing"
)

func TestGuessStoreApplyResultScoresAndClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otchallenge.json")
	s, err := OpenGuessStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	_, _ = s.PutGuess("g1", "guild", "u1", Guess{PlayerID: 7, PlayerName: "X"})
	_, _ = s.PutGuess("g1", "guild", "u2", Guess{PlayerID: 8, PlayerName: "Y"})

	scored, err := s.ApplyResult("g1", 7)
	if err != nil || scored != 2 {
		t.Fatalf("expected 2 scored, got %d (%v)", scored, err)
	}
	table := s.Standings("guild")
	if table["u1"] != (Tally{Guesses: 1, Correct: 1}) {
		t.Fatalf("unexpected u1 tally %+v", table["u1"])
	}
	if table["u2"] != (Tally{Guesses: 1, Correct: 0}) {
		t.Fatalf("unexpected u2 tally %+v", table["u2"])
	}
	if len(s.GamesWithGuesses()) != 0 {
		t.Fatal("expected guesses to be consumed")
	}
}

func TestGuessStoreReplacesGuessAndSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otchallenge.json")
	s, err := OpenGuessStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if replaced, _ := s.PutGuess("g1", "guild", "u1", Guess{PlayerID: 1}); replaced {
		t.Fatal("first guess should not replace")
	}
	if replaced, _ := s.PutGuess("g1", "guild", "u1", Guess{PlayerID: 2}); !replaced {
		t.Fatal("second guess should replace")
	}
	s.Close()

	reopened, err := OpenGuessStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got := reopened.Guesses("g1")
	if got["guild"]["u1"].PlayerID != 2 {
		t.Fatalf("expected latest guess after restart, got %+v", got)
	}
	if err := reopened.DeleteGame("g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(reopened.Guesses("g1")) != 0 {
		t.Fatal("expected guesses to be discarded")
	}
}
