// Package standings computes league tables from matches, verified scores,
// the preseason baseline, and division moves. Everything here is pure: the
// service layer loads the inputs and callers get a deterministic table back.
package standings

import (
	"sort"
	"strings"

	"github.com/courtside/league-system/models"
)

// Input carries everything one standings run folds over.
type Input struct {
	Matches  []models.Match
	Scores   map[int]models.MatchScore
	Baseline []models.BaselineRow
	Moves    []models.DivisionMove
	// KnownTeams seeds the totals so teams without a verified game still
	// appear. Build it with KnownTeams().
	KnownTeams []models.TeamRef
}

// Row is one team's line in a division table.
type Row struct {
	Rank          int    `json:"rank"`
	Team          string `json:"team"`
	GamesPlayed   int    `json:"games_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}

// DivisionTable is the ranked table for a single division.
type DivisionTable struct {
	Division models.Division `json:"division"`
	Rows     []Row           `json:"rows"`
}

// Table is the full computed standings.
type Table struct {
	// StartWeek is the first schedule week counted into the totals: 2 when
	// a non-empty baseline already covers week 1, otherwise 1.
	StartWeek int `json:"start_week"`
	// AsOfWeek is the latest week with at least one verified score and the
	// cut-off for division moves.
	AsOfWeek  int             `json:"as_of_week"`
	Divisions []DivisionTable `json:"divisions"`
}

type totals struct {
	team          string
	division      models.Division
	gamesPlayed   int
	wins          int
	losses        int
	pointsFor     int
	pointsAgainst int
}

// Compute folds the inputs into ranked division tables.
//
// Only verified scores count. Within a verified match each of the three game
// slots contributes only when both sides entered a score; a slot with one
// side blank is ignored entirely. Ties add a game played to both teams and a
// win to neither.
func Compute(in Input) Table {
	startWeek := 1
	if baselineHasStats(in.Baseline) {
		startWeek = 2
	}

	acc := make(map[string]*totals)
	order := make([]string, 0, len(in.KnownTeams))

	ensure := func(name string, division models.Division) *totals {
		key := models.NormalizeTeamName(name)
		if t, ok := acc[key]; ok {
			return t
		}
		t := &totals{team: key, division: division}
		acc[key] = t
		order = append(order, key)
		return t
	}

	for _, ref := range in.KnownTeams {
		ensure(ref.Name, ref.Division)
	}

	if startWeek == 2 {
		for _, row := range in.Baseline {
			t := ensure(row.Team, row.Division)
			t.gamesPlayed += row.GamesPlayed
			t.wins += row.Wins
			t.losses += row.Losses
			t.pointsFor += row.PointsFor
			t.pointsAgainst += row.PointsAgainst
		}
	}

	for _, m := range in.Matches {
		if m.Week < startWeek {
			continue
		}
		sc, ok := in.Scores[m.ID]
		if !ok || !sc.Verified {
			continue
		}

		var played, winsA, winsB, ptsA, ptsB int
		for i := 0; i < models.GamesPerMatch; i++ {
			ga := sc.TeamA.Game(i)
			gb := sc.TeamB.Game(i)
			if !models.GameEnteredPair(ga, gb) {
				continue
			}
			played++
			ptsA += ga.Points()
			ptsB += gb.Points()
			switch {
			case ga.Points() > gb.Points():
				winsA++
			case gb.Points() > ga.Points():
				winsB++
			}
		}
		if played == 0 {
			continue
		}

		a := ensure(m.TeamA, m.Division)
		a.gamesPlayed += played
		a.wins += winsA
		a.losses += winsB
		a.pointsFor += ptsA
		a.pointsAgainst += ptsB

		b := ensure(m.TeamB, m.Division)
		b.gamesPlayed += played
		b.wins += winsB
		b.losses += winsA
		b.pointsFor += ptsB
		b.pointsAgainst += ptsA
	}

	asOf := asOfWeek(in.Matches, in.Scores)

	byDivision := make(map[models.Division][]Row)
	for _, key := range order {
		t := acc[key]
		division := finalDivision(t.team, t.division, in.Moves, asOf)
		byDivision[division] = append(byDivision[division], Row{
			Team:          t.team,
			GamesPlayed:   t.gamesPlayed,
			Wins:          t.wins,
			Losses:        t.losses,
			PointsFor:     t.pointsFor,
			PointsAgainst: t.pointsAgainst,
		})
	}

	out := Table{StartWeek: startWeek, AsOfWeek: asOf}
	for _, division := range models.Divisions() {
		rows := byDivision[division]
		sort.SliceStable(rows, func(i, j int) bool { return lessRow(rows[i], rows[j]) })
		for i := range rows {
			rows[i].Rank = i + 1
		}
		out.Divisions = append(out.Divisions, DivisionTable{Division: division, Rows: rows})
	}
	return out
}

func baselineHasStats(rows []models.BaselineRow) bool {
	for _, row := range rows {
		if row.HasStats() {
			return true
		}
	}
	return false
}

// asOfWeek is the highest week holding a verified score, minimum 1.
func asOfWeek(matches []models.Match, scores map[int]models.MatchScore) int {
	week := 1
	for _, m := range matches {
		if sc, ok := scores[m.ID]; ok && sc.Verified && m.Week > week {
			week = m.Week
		}
	}
	return week
}

// finalDivision applies the latest move whose effective week has been
// reached. Moves dated after asOf stay invisible until play catches up.
// Among several moves for one team the highest effective week wins; exact
// duplicates resolve to the one recorded last.
func finalDivision(team string, original models.Division, moves []models.DivisionMove, asOf int) models.Division {
	division := original
	best := -1
	for _, mv := range moves {
		if mv.EffectiveWeek > asOf || mv.EffectiveWeek < best {
			continue
		}
		if !models.TeamNamesEqual(mv.Team, team) {
			continue
		}
		best = mv.EffectiveWeek
		division = mv.ToDivision
	}
	return division
}

// lessRow orders a division table: teams that have played anything come
// first, then wins desc, losses asc, points for desc, points against asc,
// team name asc.
func lessRow(a, b Row) bool {
	aIdle := a.GamesPlayed == 0
	bIdle := b.GamesPlayed == 0
	if aIdle != bIdle {
		return bIdle
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.Losses != b.Losses {
		return a.Losses < b.Losses
	}
	if a.PointsFor != b.PointsFor {
		return a.PointsFor > b.PointsFor
	}
	if a.PointsAgainst != b.PointsAgainst {
		return a.PointsAgainst < b.PointsAgainst
	}
	an := strings.ToLower(a.Team)
	bn := strings.ToLower(b.Team)
	if an != bn {
		return an < bn
	}
	return a.Team < b.Team
}
