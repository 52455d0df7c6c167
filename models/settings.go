package models

import "time"

// LeagueSettings is a single-row table: the league-wide knobs the admin
// screens maintain.
type LeagueSettings struct {
	CurrentWeek int       `json:"current_week" db:"current_week"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
