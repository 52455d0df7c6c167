package standings

import "github.com/courtside/league-system/models"

// charterTeams is the league's founding roster, kept as the fallback source
// of a team's division when the roster table has no row for it. Teams that
// joined later exist only in the roster table or on the schedule itself.
var charterTeams = []models.TeamRef{
	{Division: models.DivisionBeginner, Name: "Garcia/Holt"},
	{Division: models.DivisionBeginner, Name: "Nguyen/Park"},
	{Division: models.DivisionBeginner, Name: "Okafor/Reyes"},
	{Division: models.DivisionBeginner, Name: "Sutton/Vance"},
	{Division: models.DivisionBeginner, Name: "Albright/Kim"},
	{Division: models.DivisionBeginner, Name: "Mercer/Diaz"},

	{Division: models.DivisionIntermediate, Name: "Bauer/Lindqvist"},
	{Division: models.DivisionIntermediate, Name: "Castillo/Moore"},
	{Division: models.DivisionIntermediate, Name: "Ferris/Whitaker"},
	{Division: models.DivisionIntermediate, Name: "Janssen/Cole"},
	{Division: models.DivisionIntermediate, Name: "Quintana/Moss"},
	{Division: models.DivisionIntermediate, Name: "Tran/Ellison"},

	{Division: models.DivisionAdvanced, Name: "Ashford/Bell"},
	{Division: models.DivisionAdvanced, Name: "Delgado/Pruitt"},
	{Division: models.DivisionAdvanced, Name: "Hong/Marsh"},
	{Division: models.DivisionAdvanced, Name: "Ivanov/Slater"},
	{Division: models.DivisionAdvanced, Name: "Navarro/Wilde"},
	{Division: models.DivisionAdvanced, Name: "Pierce/Atwell"},
}

// CharterTeams returns a copy of the founding roster.
func CharterTeams() []models.TeamRef {
	out := make([]models.TeamRef, len(charterTeams))
	copy(out, charterTeams)
	return out
}

// KnownTeams builds the full set of teams a standings run must show: the
// roster table, the charter roster, and every name that appears on the
// schedule. The first source to mention a team decides its original
// division; schedule-only teams default to Beginner. A team with zero games
// still gets a row this way.
func KnownTeams(roster []models.Team, matches []models.Match) []models.TeamRef {
	seen := make(map[string]bool)
	out := make([]models.TeamRef, 0, len(roster)+len(charterTeams))

	add := func(division models.Division, name string) {
		name = models.NormalizeTeamName(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, models.TeamRef{Division: division, Name: name})
	}

	for _, t := range roster {
		add(t.Division, t.Name)
	}
	for _, t := range charterTeams {
		add(t.Division, t.Name)
	}
	for _, m := range matches {
		add(models.DivisionBeginner, m.TeamA)
		add(models.DivisionBeginner, m.TeamB)
	}
	return out
}
