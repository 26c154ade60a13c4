package teams

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistryResolvesAliases(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("load default teams: %v", err)
	}

	cases := map[string]string{
		"TOR":         "TOR",
		"leafs":       "TOR",
		"Maple Leafs": "TOR",
		"Montréal":    "MTL",
		"habs":        "MTL",
		"st. louis":   "STL",
		"wpj":         "WPG",
	}
	for query, want := range cases {
		got, ok := reg.Resolve(query)
		if !ok || got != want {
			t.Fatalf("resolve %q: expected %s, got %s (ok=%v)", query, want, got, ok)
		}
	}

	if _, ok := reg.Resolve("nordiques"); ok {
		t.Fatalf("expected unknown alias to miss")
	}
}

func TestLabelAndEmoji(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("load default teams: %v", err)
	}
	if got := reg.Label("TOR"); got != "<:TRT:805177551843885063> TOR" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := reg.Label("ATL"); got != "ATL" {
		t.Fatalf("expected bare code without emoji, got %q", got)
	}
	if got := reg.Label("XYZ"); got != "XYZ" {
		t.Fatalf("expected bare code for unknown team, got %q", got)
	}
	if reg.GoalEmoji() == "" {
		t.Fatalf("expected goal emoji")
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("teams:\n  - {code: TOR}\n  - {code: tor}\n"))
	if err == nil {
		t.Fatalf("expected duplicate code error")
	}
	if _, err := Parse([]byte("teams: []")); err == nil {
		t.Fatalf("expected error for empty table")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	if err := os.WriteFile(path, []byte("goal_emoji: \":rotating_light:\"\nteams:\n  - {code: TOR, emoji: \":leaf:\", aliases: [buds]}\n"), 0o644); err != nil {
		t.Fatalf("write teams file: %v", err)
	}
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load teams file: %v", err)
	}
	if code, ok := reg.Resolve("buds"); !ok || code != "TOR" {
		t.Fatalf("expected alias from file, got %s", code)
	}
	if reg.GoalEmoji() != ":rotating_light:" {
		t.Fatalf("unexpected goal emoji %q", reg.GoalEmoji())
	}
}
