package models

// BaselineRow is one team's line of a manually-seeded standings snapshot,
// conventionally covering week 1 before results were tracked here.
type BaselineRow struct {
	ID            int      `json:"id" db:"id"`
	Division      Division `json:"division" db:"division"`
	Team          string   `json:"team" db:"team"`
	GamesPlayed   int      `json:"games_played" db:"games_played"`
	Wins          int      `json:"wins" db:"wins"`
	Losses        int      `json:"losses" db:"losses"`
	PointsFor     int      `json:"points_for" db:"points_for"`
	PointsAgainst int      `json:"points_against" db:"points_against"`
}

// HasStats reports whether the row carries any real statistic. A baseline
// made only of zero rows is a roster, not a snapshot.
func (r BaselineRow) HasStats() bool {
	return r.GamesPlayed != 0 || r.Wins != 0 || r.Losses != 0 ||
		r.PointsFor != 0 || r.PointsAgainst != 0
}
