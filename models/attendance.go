package models

import "time"

// Attendance marks a team out (or back in) for a week. Keyed by week+team,
// written with upsert semantics.
type Attendance struct {
	Week      int       `json:"week" db:"week"`
	Team      string    `json:"team" db:"team"`
	Absent    bool      `json:"absent" db:"absent"`
	NotedBy   string    `json:"noted_by,omitempty" db:"noted_by"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
