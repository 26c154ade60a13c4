package teams

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/textnorm"
)

//go:embed teams.yaml
var defaultTeams []byte

// Team is one franchise (or all-star division side) with its chat emblem.
type Team struct {
	Code    string   `yaml:"code"`
	Emoji   string   `yaml:"emoji"`
	Aliases []string `yaml:"aliases"`
}

type document struct {
	GoalEmoji string `yaml:"goal_emoji"`
	Teams     []Team `yaml:"teams"`
}

// Registry resolves team aliases and emblems. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	goalEmoji string
	byCode    map[string]Team
	aliases   map[string]string
}

// Default parses the embedded team table.
func Default() (*Registry, error) {
	return Parse(defaultTeams)
}

// LoadFile parses a team table from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read teams file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}
	if len(doc.Teams) == 0 {
		return nil, fmt.Errorf("decode teams: no teams defined")
	}

	r := &Registry{
		goalEmoji: doc.GoalEmoji,
		byCode:    make(map[string]Team, len(doc.Teams)),
		aliases:   make(map[string]string, len(doc.Teams)*4),
	}
	for _, t := range doc.Teams {
		code := strings.ToUpper(strings.TrimSpace(t.Code))
		if code == "" {
			return nil, fmt.Errorf("decode teams: team without code")
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("decode teams: duplicate code %s", code)
		}
		t.Code = code
		r.byCode[code] = t
		r.aliases[textnorm.Fold(code)] = code
		for _, alias := range t.Aliases {
			r.aliases[textnorm.Fold(alias)] = code
		}
	}
	return r, nil
}

// Resolve maps an abbreviation, city or nickname onto a team code.
func (r *Registry) Resolve(query string) (string, bool) {
	if r == nil {
		return "", false
	}
	code, ok := r.aliases[textnorm.Fold(query)]
	return code, ok
}

// Emoji returns the team's emblem, or "" when unknown.
func (r *Registry) Emoji(code string) string {
	if r == nil {
		return ""
	}
	return r.byCode[code].Emoji
}

// Label renders "{emoji} CODE", omitting the emoji when none is configured.
func (r *Registry) Label(code string) string {
	if e := r.Emoji(code); e != "" {
		return e + " " + code
	}
	return code
}

// GoalEmoji is the siren shown at the start of goal posts.
func (r *Registry) GoalEmoji() string {
	if r == nil {
		return ""
	}
	return r.goalEmoji
}
