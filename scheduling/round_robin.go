package scheduling

import (
	"errors"
	"strings"
)

var ErrNotEnoughTeams = errors.New("at least two teams are needed to build a rotation")

// Pairing is one suggested matchup within a week.
type Pairing struct {
	TeamA string `json:"team_a"`
	TeamB string `json:"team_b"`
}

// WeekPairings groups the suggested matchups for one schedule week. With an
// odd team count one team sits out and is named in Bye.
type WeekPairings struct {
	Week     int       `json:"week"`
	Pairings []Pairing `json:"pairings"`
	Bye      string    `json:"bye,omitempty"`
}

// RoundRobin builds a circle-method rotation over the given team names,
// starting at startWeek and running for weeks weeks. Every team meets every
// other team once per cycle; asking for more weeks than a cycle holds wraps
// into a second cycle with the same pairings. Names are trimmed and
// deduplicated, blank entries dropped.
func RoundRobin(teams []string, startWeek, weeks int) ([]WeekPairings, error) {
	rotation := make([]string, 0, len(teams)+1)
	seen := make(map[string]bool, len(teams))
	for _, team := range teams {
		team = strings.TrimSpace(team)
		if team == "" {
			continue
		}
		fold := strings.ToLower(team)
		if seen[fold] {
			continue
		}
		seen[fold] = true
		rotation = append(rotation, team)
	}
	if len(rotation) < 2 {
		return nil, ErrNotEnoughTeams
	}
	if startWeek < 1 {
		startWeek = 1
	}
	if weeks < 1 {
		// A single full cycle.
		weeks = len(rotation) - 1
		if len(rotation)%2 != 0 {
			weeks = len(rotation)
		}
	}

	// Odd counts get a phantom slot; its opponent sits the week out.
	if len(rotation)%2 != 0 {
		rotation = append(rotation, "")
	}
	n := len(rotation)

	out := make([]WeekPairings, 0, weeks)
	for w := 0; w < weeks; w++ {
		wp := WeekPairings{Week: startWeek + w, Pairings: make([]Pairing, 0, n/2)}
		for i := 0; i < n/2; i++ {
			a := rotation[i]
			b := rotation[n-1-i]
			switch {
			case a == "":
				wp.Bye = b
			case b == "":
				wp.Bye = a
			default:
				wp.Pairings = append(wp.Pairings, Pairing{TeamA: a, TeamB: b})
			}
		}
		out = append(out, wp)

		// Rotate everything but the first slot.
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	return out, nil
}
