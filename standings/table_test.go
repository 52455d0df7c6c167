package standings

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/courtside/league-system/models"
)

func match(id, week int, division models.Division, teamA, teamB string) models.Match {
	return models.Match{ID: id, Week: week, Division: division, TeamA: teamA, TeamB: teamB}
}

// side builds one team's game results from strings, where "" means the game
// was never entered.
func side(g1, g2, g3 string) models.ScoreFields {
	var f models.ScoreFields
	set := func(dst *models.GameScore, s string) {
		if s == "" {
			return
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			panic("bad test score: " + s)
		}
		*dst = models.Score(n)
	}
	set(&f.G1, g1)
	set(&f.G2, g2)
	set(&f.G3, g3)
	return f
}

func verified(matchID int, a, b models.ScoreFields) models.MatchScore {
	return models.MatchScore{MatchID: matchID, TeamA: a, TeamB: b, Verified: true, VerifiedBy: "League Admin"}
}

func findRow(t *testing.T, table Table, division models.Division, team string) Row {
	t.Helper()
	for _, dt := range table.Divisions {
		if dt.Division != division {
			continue
		}
		for _, r := range dt.Rows {
			if r.Team == team {
				return r
			}
		}
	}
	t.Fatalf("no row for %q in %s", team, division)
	return Row{}
}

func TestComputePartialMatch(t *testing.T) {
	matches := []models.Match{match(1, 1, models.DivisionBeginner, "A/B", "C/D")}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "9", ""), side("7", "11", "")),
	}
	table := Compute(Input{
		Matches:    matches,
		Scores:     scores,
		KnownTeams: KnownTeams(nil, matches),
	})

	ab := findRow(t, table, models.DivisionBeginner, "A/B")
	want := Row{Rank: ab.Rank, Team: "A/B", GamesPlayed: 2, Wins: 1, Losses: 1, PointsFor: 20, PointsAgainst: 18}
	if !reflect.DeepEqual(ab, want) {
		t.Errorf("A/B row = %+v, want %+v", ab, want)
	}

	cd := findRow(t, table, models.DivisionBeginner, "C/D")
	if cd.GamesPlayed != 2 || cd.Wins != 1 || cd.Losses != 1 || cd.PointsFor != 18 || cd.PointsAgainst != 20 {
		t.Errorf("C/D row = %+v", cd)
	}
}

func TestComputeZeroIsEnteredBlankIsNot(t *testing.T) {
	tests := []struct {
		name       string
		a, b       models.ScoreFields
		wantPlayed int
		wantWins   int
		wantLosses int
	}{
		{
			// An entered 0 against an entered 11 is a real, lost game.
			name:       "zero counts as played",
			a:          side("0", "", ""),
			b:          side("11", "", ""),
			wantPlayed: 1,
			wantWins:   0,
			wantLosses: 1,
		},
		{
			// A blank on either side drops the slot entirely.
			name:       "blank opponent drops the slot",
			a:          side("11", "", ""),
			b:          side("", "", ""),
			wantPlayed: 0,
		},
		{
			name:       "blank own side drops the slot",
			a:          side("", "9", ""),
			b:          side("4", "", ""),
			wantPlayed: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches := []models.Match{match(1, 1, models.DivisionBeginner, "A/B", "C/D")}
			table := Compute(Input{
				Matches:    matches,
				Scores:     map[int]models.MatchScore{1: verified(1, tc.a, tc.b)},
				KnownTeams: KnownTeams(nil, matches),
			})
			row := findRow(t, table, models.DivisionBeginner, "A/B")
			if row.GamesPlayed != tc.wantPlayed || row.Wins != tc.wantWins || row.Losses != tc.wantLosses {
				t.Errorf("row = %+v, want played=%d wins=%d losses=%d",
					row, tc.wantPlayed, tc.wantWins, tc.wantLosses)
			}
		})
	}
}

func TestComputeTiedGameCountsForNeither(t *testing.T) {
	matches := []models.Match{match(1, 1, models.DivisionBeginner, "A/B", "C/D")}
	table := Compute(Input{
		Matches:    matches,
		Scores:     map[int]models.MatchScore{1: verified(1, side("8", "", ""), side("8", "", ""))},
		KnownTeams: KnownTeams(nil, matches),
	})
	for _, team := range []string{"A/B", "C/D"} {
		row := findRow(t, table, models.DivisionBeginner, team)
		if row.GamesPlayed != 1 || row.Wins != 0 || row.Losses != 0 || row.PointsFor != 8 || row.PointsAgainst != 8 {
			t.Errorf("%s row = %+v, want 1 played and no result", team, row)
		}
	}
}

func TestComputeSkipsUnverifiedScores(t *testing.T) {
	matches := []models.Match{match(1, 1, models.DivisionBeginner, "A/B", "C/D")}
	sc := verified(1, side("11", "11", ""), side("2", "3", ""))
	sc.Verified = false
	sc.VerifiedBy = ""
	table := Compute(Input{
		Matches:    matches,
		Scores:     map[int]models.MatchScore{1: sc},
		KnownTeams: KnownTeams(nil, matches),
	})
	row := findRow(t, table, models.DivisionBeginner, "A/B")
	if row.GamesPlayed != 0 {
		t.Errorf("unverified score counted: %+v", row)
	}
	if table.AsOfWeek != 1 {
		t.Errorf("AsOfWeek = %d, want 1", table.AsOfWeek)
	}
}

func TestComputeBaseline(t *testing.T) {
	matches := []models.Match{
		match(1, 1, models.DivisionBeginner, "A/B", "C/D"),
		match(2, 2, models.DivisionBeginner, "A/B", "C/D"),
	}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "11", "11"), side("0", "0", "0")),
		2: verified(2, side("11", "", ""), side("5", "", "")),
	}

	t.Run("baseline with stats covers week one", func(t *testing.T) {
		baseline := []models.BaselineRow{
			{Division: models.DivisionBeginner, Team: "A/B", GamesPlayed: 3, Wins: 2, Losses: 1, PointsFor: 30, PointsAgainst: 25},
			{Division: models.DivisionBeginner, Team: "C/D", GamesPlayed: 3, Wins: 1, Losses: 2, PointsFor: 25, PointsAgainst: 30},
		}
		table := Compute(Input{
			Matches:    matches,
			Scores:     scores,
			Baseline:   baseline,
			KnownTeams: KnownTeams(nil, matches),
		})
		if table.StartWeek != 2 {
			t.Fatalf("StartWeek = %d, want 2", table.StartWeek)
		}
		// Baseline plus the week-2 match only; the week-1 sweep must not
		// double-count.
		row := findRow(t, table, models.DivisionBeginner, "A/B")
		want := Row{Rank: 1, Team: "A/B", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 41, PointsAgainst: 30}
		if !reflect.DeepEqual(row, want) {
			t.Errorf("A/B row = %+v, want %+v", row, want)
		}
	})

	t.Run("all-zero baseline is just a roster", func(t *testing.T) {
		baseline := []models.BaselineRow{
			{Division: models.DivisionBeginner, Team: "A/B"},
			{Division: models.DivisionBeginner, Team: "C/D"},
		}
		table := Compute(Input{
			Matches:    matches,
			Scores:     scores,
			Baseline:   baseline,
			KnownTeams: KnownTeams(nil, matches),
		})
		if table.StartWeek != 1 {
			t.Fatalf("StartWeek = %d, want 1", table.StartWeek)
		}
		row := findRow(t, table, models.DivisionBeginner, "A/B")
		if row.GamesPlayed != 4 || row.Wins != 4 {
			t.Errorf("A/B row = %+v, want both weeks counted", row)
		}
	})
}

func TestComputeAsOfWeek(t *testing.T) {
	matches := []models.Match{
		match(1, 2, models.DivisionBeginner, "A/B", "C/D"),
		match(2, 5, models.DivisionBeginner, "A/B", "C/D"),
		match(3, 9, models.DivisionBeginner, "A/B", "C/D"),
	}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "", ""), side("3", "", "")),
		2: verified(2, side("11", "", ""), side("3", "", "")),
		// Week 9 exists on the schedule but has no verified score.
	}
	table := Compute(Input{Matches: matches, Scores: scores, KnownTeams: KnownTeams(nil, matches)})
	if table.AsOfWeek != 5 {
		t.Errorf("AsOfWeek = %d, want 5", table.AsOfWeek)
	}

	empty := Compute(Input{KnownTeams: KnownTeams(nil, nil)})
	if empty.AsOfWeek != 1 {
		t.Errorf("AsOfWeek with no scores = %d, want 1", empty.AsOfWeek)
	}
}

func TestComputeDivisionMoves(t *testing.T) {
	matches := []models.Match{
		match(1, 4, models.DivisionBeginner, "A/B", "C/D"),
	}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "", ""), side("7", "", "")),
	}
	base := Input{Matches: matches, Scores: scores, KnownTeams: KnownTeams(nil, matches)}

	tests := []struct {
		name  string
		moves []models.DivisionMove
		want  models.Division
	}{
		{
			name: "move at or before as-of applies",
			moves: []models.DivisionMove{
				{Team: "A/B", FromDivision: models.DivisionBeginner, ToDivision: models.DivisionIntermediate, EffectiveWeek: 3},
			},
			want: models.DivisionIntermediate,
		},
		{
			name: "future move stays invisible",
			moves: []models.DivisionMove{
				{Team: "A/B", FromDivision: models.DivisionBeginner, ToDivision: models.DivisionIntermediate, EffectiveWeek: 5},
			},
			want: models.DivisionBeginner,
		},
		{
			name: "latest effective week wins",
			moves: []models.DivisionMove{
				{Team: "A/B", ToDivision: models.DivisionIntermediate, EffectiveWeek: 2},
				{Team: "A/B", ToDivision: models.DivisionAdvanced, EffectiveWeek: 4},
			},
			want: models.DivisionAdvanced,
		},
		{
			name: "team names match case-insensitively",
			moves: []models.DivisionMove{
				{Team: "  a/b ", ToDivision: models.DivisionAdvanced, EffectiveWeek: 1},
			},
			want: models.DivisionAdvanced,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.Moves = tc.moves
			table := Compute(in)
			row := findRow(t, table, tc.want, "A/B")
			if row.GamesPlayed != 1 {
				t.Errorf("moved row lost its totals: %+v", row)
			}
			// The team must not appear twice.
			for _, dt := range table.Divisions {
				if dt.Division == tc.want {
					continue
				}
				for _, r := range dt.Rows {
					if r.Team == "A/B" {
						t.Errorf("A/B also present in %s", dt.Division)
					}
				}
			}
		})
	}
}

func TestComputeSortOrder(t *testing.T) {
	rows := []Row{
		{Team: "idle", GamesPlayed: 0},
		{Team: "beta", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 40, PointsAgainst: 30},
		{Team: "alpha", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 40, PointsAgainst: 30},
		{Team: "top", GamesPlayed: 4, Wins: 4, Losses: 0, PointsFor: 44, PointsAgainst: 10},
		{Team: "fewer losses", GamesPlayed: 5, Wins: 3, Losses: 0, PointsFor: 33, PointsAgainst: 20},
		{Team: "more pf", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 41, PointsAgainst: 30},
		{Team: "fewer pa", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 40, PointsAgainst: 29},
	}
	want := []string{"top", "fewer losses", "more pf", "fewer pa", "alpha", "beta", "idle"}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if lessRow(sorted[j], sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	got := make([]string, len(sorted))
	for i, r := range sorted {
		got[i] = r.Team
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort order = %v, want %v", got, want)
	}
}

func TestComputeNameBreaksIdenticalTotals(t *testing.T) {
	// A mirrored split leaves both sides at 1-1 with 18 points each way, so
	// the roster order is down to the name alone.
	matches := []models.Match{match(1, 1, models.DivisionBeginner, "Brook/Lane", "Ash/Field")}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "7", ""), side("7", "11", "")),
	}
	table := Compute(Input{
		Matches:    matches,
		Scores:     scores,
		KnownTeams: KnownTeams(nil, matches),
	})

	ash := findRow(t, table, models.DivisionBeginner, "Ash/Field")
	brook := findRow(t, table, models.DivisionBeginner, "Brook/Lane")
	for _, row := range []Row{ash, brook} {
		if row.GamesPlayed != 2 || row.Wins != 1 || row.Losses != 1 || row.PointsFor != 18 || row.PointsAgainst != 18 {
			t.Errorf("%s row = %+v, want identical 1-1 18/18 lines", row.Team, row)
		}
	}
	if ash.Rank != 1 || brook.Rank != 2 {
		t.Errorf("ranks = %d/%d, want Ash/Field first on the name", ash.Rank, brook.Rank)
	}
}

func TestComputeRanksPerDivision(t *testing.T) {
	matches := []models.Match{
		match(1, 1, models.DivisionBeginner, "A/B", "C/D"),
		match(2, 1, models.DivisionIntermediate, "E/F", "G/H"),
	}
	scores := map[int]models.MatchScore{
		1: verified(1, side("11", "", ""), side("5", "", "")),
		2: verified(2, side("11", "", ""), side("5", "", "")),
	}
	roster := []models.Team{
		{Division: models.DivisionBeginner, Name: "A/B"},
		{Division: models.DivisionBeginner, Name: "C/D"},
		{Division: models.DivisionIntermediate, Name: "E/F"},
		{Division: models.DivisionIntermediate, Name: "G/H"},
	}
	table := Compute(Input{
		Matches:    matches,
		Scores:     scores,
		KnownTeams: KnownTeams(roster, matches),
	})
	for _, dt := range table.Divisions {
		for i, r := range dt.Rows {
			if r.Rank != i+1 {
				t.Errorf("%s row %d has rank %d", dt.Division, i, r.Rank)
			}
		}
	}
	if findRow(t, table, models.DivisionBeginner, "A/B").Rank != 1 {
		t.Errorf("A/B should lead Beginner")
	}
	if findRow(t, table, models.DivisionIntermediate, "E/F").Rank != 1 {
		t.Errorf("E/F should lead Intermediate")
	}
}

func TestKnownTeams(t *testing.T) {
	roster := []models.Team{
		{Division: models.DivisionAdvanced, Name: "Garcia/Holt"}, // overrides the charter division
		{Division: models.DivisionIntermediate, Name: "New/Pair"},
	}
	matches := []models.Match{
		match(1, 1, models.DivisionAdvanced, "Walk-on/Duo", "New/Pair"),
	}
	refs := KnownTeams(roster, matches)

	byName := make(map[string]models.Division)
	for _, ref := range refs {
		if _, dup := byName[ref.Name]; dup {
			t.Fatalf("duplicate entry for %q", ref.Name)
		}
		byName[ref.Name] = ref.Division
	}

	if got := byName["Garcia/Holt"]; got != models.DivisionAdvanced {
		t.Errorf("roster division not preferred: got %s", got)
	}
	if got := byName["New/Pair"]; got != models.DivisionIntermediate {
		t.Errorf("New/Pair division = %s, want Intermediate", got)
	}
	// A name seen only on the schedule defaults to Beginner.
	if got := byName["Walk-on/Duo"]; got != models.DivisionBeginner {
		t.Errorf("Walk-on/Duo division = %s, want Beginner", got)
	}
	// The rest of the charter is present too.
	if got := byName["Pierce/Atwell"]; got != models.DivisionAdvanced {
		t.Errorf("charter team missing or misfiled: %s", got)
	}
}
