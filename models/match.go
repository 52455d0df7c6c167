package models

import "time"

type Match struct {
	ID        int       `json:"id" db:"id"`
	Week      int       `json:"week" db:"week"`
	Division  Division  `json:"division" db:"division"`
	TimeSlot  string    `json:"time_slot" db:"time_slot"`
	Court     int       `json:"court" db:"court"`
	TeamA     string    `json:"team_a" db:"team_a"`
	TeamB     string    `json:"team_b" db:"team_b"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated by the service for list responses, never stored.
	Score *MatchScore `json:"score,omitempty" db:"-"`
}

// Teams returns both team names in schedule order.
func (m Match) Teams() [2]string {
	return [2]string{m.TeamA, m.TeamB}
}

// HasTeam reports whether name is one of the match's teams, compared with
// the same trim/fold rules used everywhere team names are matched.
func (m Match) HasTeam(name string) bool {
	return TeamNamesEqual(m.TeamA, name) || TeamNamesEqual(m.TeamB, name)
}
