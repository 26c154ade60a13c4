package scoreboard

import "github.com/preston-bernstein/nhl-scoreboard-bot/internal/domain/games"

const penaltyShotCode = "1010"

// Strength annotates a goal from its situation code, e.g. "(PP) " or
// "(SH) (EN) ". Even-strength goals return "".
//
// The code lists away goalie, away skaters, home skaters, home goalie. It is
// reversed for away goals so the scoring side always reads last.
func Strength(goal games.Goal) string {
	code := goal.SituationCode
	if len(code) != 4 {
		return ""
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return ""
		}
	}
	if !goal.HomeTeam {
		code = reverse(code)
	}
	if code == penaltyShotCode {
		return "(PS) "
	}

	opp := digit(code[0]) + digit(code[1])
	own := digit(code[2]) + digit(code[3])

	var out string
	switch {
	case opp < own:
		out = "(PP) "
	case opp > own:
		out = "(SH) "
	}
	if code[0] == '0' {
		out += "(EN) "
	}
	return out
}

func digit(b byte) int {
	return int(b - '0')
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
