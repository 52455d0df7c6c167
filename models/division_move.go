package models

import "time"

// DivisionMove reassigns a team's standings division from EffectiveWeek
// onward. It can be superseded by a later move for the same team with a
// higher effective week.
type DivisionMove struct {
	ID            int       `json:"id" db:"id"`
	Team          string    `json:"team" db:"team"`
	FromDivision  Division  `json:"from_division" db:"from_division"`
	ToDivision    Division  `json:"to_division" db:"to_division"`
	EffectiveWeek int       `json:"effective_week" db:"effective_week"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
