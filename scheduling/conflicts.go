package scheduling

import (
	"sort"

	"github.com/courtside/league-system/models"
)

// Candidate is a match save being checked. MatchID is zero for a create;
// for an update it excludes the edited match from every scan.
type Candidate struct {
	MatchID  int
	Week     int
	Division models.Division
	TimeSlot string
	Court    int
	TeamA    string
	TeamB    string
}

func (c Candidate) other(m models.Match) bool {
	return c.MatchID == 0 || m.ID != c.MatchID
}

// AbsentTeams returns the candidate's teams marked absent for the week, in
// schedule order.
func AbsentTeams(c Candidate, absences []models.Attendance) []string {
	var out []string
	for _, team := range []string{c.TeamA, c.TeamB} {
		for _, a := range absences {
			if a.Week == c.Week && a.Absent && models.TeamNamesEqual(a.Team, team) {
				out = append(out, team)
				break
			}
		}
	}
	return out
}

// DoubleBooked returns matches in any division already holding either team
// at the candidate's exact week and slot. A team cannot be on two courts at
// the same quarter hour.
func DoubleBooked(c Candidate, week []models.Match) []models.Match {
	var out []models.Match
	for _, m := range week {
		if !c.other(m) || m.Week != c.Week || m.TimeSlot != c.TimeSlot {
			continue
		}
		if m.HasTeam(c.TeamA) || m.HasTeam(c.TeamB) {
			out = append(out, m)
		}
	}
	return out
}

// CourtTaken returns the match already occupying the candidate's
// week+slot+court, searching across divisions: courts are shared physical
// resources, so a Beginner booking blocks an Advanced one.
func CourtTaken(c Candidate, week []models.Match) *models.Match {
	for _, m := range week {
		if c.other(m) && m.Week == c.Week && m.TimeSlot == c.TimeSlot && m.Court == c.Court {
			return &m
		}
	}
	return nil
}

// TeamSlotClash returns a match in the candidate's own division and slot
// that already includes either team.
func TeamSlotClash(c Candidate, week []models.Match) *models.Match {
	for _, m := range week {
		if !c.other(m) || m.Week != c.Week || m.Division != c.Division || m.TimeSlot != c.TimeSlot {
			continue
		}
		if m.HasTeam(c.TeamA) || m.HasTeam(c.TeamB) {
			return &m
		}
	}
	return nil
}

// Rematch summarizes earlier meetings of the candidate's unordered pair.
type Rematch struct {
	// SameWeek is true when the pair already meets in the candidate's week.
	SameWeek bool
	// PriorWeeks lists earlier weeks the pair met, ascending, deduplicated.
	PriorWeeks []int
}

// Count returns the total prior meetings found.
func (r Rematch) Count() int {
	n := len(r.PriorWeeks)
	if r.SameWeek {
		n++
	}
	return n
}

// FindRematch scans the whole season for earlier meetings of the pair.
// Matching is unordered: A vs B and B vs A are the same pairing.
func FindRematch(c Candidate, season []models.Match) Rematch {
	var r Rematch
	seen := make(map[int]bool)
	for _, m := range season {
		if !c.other(m) || m.Week > c.Week {
			continue
		}
		pair := (models.TeamNamesEqual(m.TeamA, c.TeamA) && models.TeamNamesEqual(m.TeamB, c.TeamB)) ||
			(models.TeamNamesEqual(m.TeamA, c.TeamB) && models.TeamNamesEqual(m.TeamB, c.TeamA))
		if !pair {
			continue
		}
		if m.Week == c.Week {
			r.SameWeek = true
			continue
		}
		if !seen[m.Week] {
			seen[m.Week] = true
			r.PriorWeeks = append(r.PriorWeeks, m.Week)
		}
	}
	sort.Ints(r.PriorWeeks)
	return r
}

// SortMatches orders a schedule for display: week, slot play order, court.
// Unknown slots sort after known ones.
func SortMatches(ms []models.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Week != ms[j].Week {
			return ms[i].Week < ms[j].Week
		}
		si, sj := SlotIndex(ms[i].TimeSlot), SlotIndex(ms[j].TimeSlot)
		if si < 0 {
			si = len(timeSlots)
		}
		if sj < 0 {
			sj = len(timeSlots)
		}
		if si != sj {
			return si < sj
		}
		return ms[i].Court < ms[j].Court
	})
}
