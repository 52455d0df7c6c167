package models

import (
	"strings"
	"time"
)

type Team struct {
	ID        int       `json:"id" db:"id"`
	Division  Division  `json:"division" db:"division"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamRef identifies a known team for a standings run before any division
// move is applied.
type TeamRef struct {
	Division Division `json:"division"`
	Name     string   `json:"name"`
}

// NormalizeTeamName trims the surrounding whitespace users paste in with
// free-text team names. Totals are keyed by the trimmed name.
func NormalizeTeamName(name string) string {
	return strings.TrimSpace(name)
}

// TeamNamesEqual compares two team names the way moves and rosters are
// matched: whitespace-trimmed and case-insensitive.
func TeamNamesEqual(a, b string) bool {
	return strings.EqualFold(NormalizeTeamName(a), NormalizeTeamName(b))
}
