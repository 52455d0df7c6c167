package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GamesPerMatch is the fixed number of game slots in a match.
const GamesPerMatch = 3

// MaxGamePoints is the highest score a single game can record.
const MaxGamePoints = 11

// GameScore is one side's result for a single game slot. The zero value is
// "not entered". An entered 0 and an unentered game are different things:
// "0" counts as a played game, "" does not, and nothing here ever defaults
// an absent score to zero.
type GameScore struct {
	points  int
	entered bool
}

// Score returns an entered GameScore with the given points.
func Score(points int) GameScore {
	return GameScore{points: points, entered: true}
}

func (g GameScore) Entered() bool { return g.entered }

// Points returns the entered score, or 0 for an unentered game. Callers must
// gate on Entered (or GameEnteredPair); a bare 0 is ambiguous by itself.
func (g GameScore) Points() int { return g.points }

// GameEnteredPair reports whether a game slot counts at all: both sides must
// have an entered score, otherwise the slot is treated as not yet played.
func GameEnteredPair(a, b GameScore) bool {
	return a.Entered() && b.Entered()
}

// The wire and table shape for a game score is the loose legacy one: a JSON
// string of digits or "", with plain numbers and null tolerated from older
// writers. Everything is normalized here, at the boundary.

func (g GameScore) MarshalJSON() ([]byte, error) {
	if !g.entered {
		return []byte(`""`), nil
	}
	return json.Marshal(strconv.Itoa(g.points))
}

func (g *GameScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = GameScore{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*g = GameScore{}
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("game score %q is not a number", s)
		}
		*g = GameScore{points: n, entered: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game score %s is not a number", data)
	}
	*g = GameScore{points: n, entered: true}
	return nil
}

// ScoreFields is one side's per-game results, parsed strictly from the
// legacy row blob. Missing fields stay unset.
type ScoreFields struct {
	G1 GameScore `json:"g1"`
	G2 GameScore `json:"g2"`
	G3 GameScore `json:"g3"`
}

// Game returns the 0-indexed game slot.
func (f ScoreFields) Game(i int) GameScore {
	switch i {
	case 0:
		return f.G1
	case 1:
		return f.G2
	}
	return f.G3
}

// Value implements driver.Valuer so the fields round-trip through the jsonb
// column unchanged.
func (f ScoreFields) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (f *ScoreFields) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = ScoreFields{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("cannot scan %T into ScoreFields", src)
}

// MatchScore is the persisted result for one match, one row per match id.
type MatchScore struct {
	MatchID    int         `json:"match_id" db:"match_id"`
	TeamA      ScoreFields `json:"team_a" db:"team_a"`
	TeamB      ScoreFields `json:"team_b" db:"team_b"`
	Verified   bool        `json:"verified" db:"verified"`
	VerifiedBy string      `json:"verified_by,omitempty" db:"verified_by"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// EnteredGames counts the game slots entered on both sides.
func (s MatchScore) EnteredGames() int {
	n := 0
	for i := 0; i < GamesPerMatch; i++ {
		if GameEnteredPair(s.TeamA.Game(i), s.TeamB.Game(i)) {
			n++
		}
	}
	return n
}
