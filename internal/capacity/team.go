package capacity

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// MemberLoad is the full load of one team member while on a project
type MemberLoad struct {
	PersonID string
	Series   Series
}

// TeamLoad computes, for every member of the project, the person's load built from
// the broad project-team set: this project's bookings plus their time off.
// Members are returned sorted by person ID.
func TeamLoad(assignments []planner.Assignment, days []calendar.Date, projectID string) []MemberLoad {
	broad := ProjectTeamAssignments(assignments, projectID)
	byPerson := make(map[string][]planner.Assignment)
	for _, a := range broad {
		byPerson[a.PersonID] = append(byPerson[a.PersonID], a)
	}

	out := make([]MemberLoad, 0, len(byPerson))
	for person, list := range byPerson {
		out = append(out, MemberLoad{PersonID: person, Series: aggregate(list, days)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonID < out[j].PersonID })
	return out
}

// OverloadedMembers lists team members whose load from TeamLoad exceeds 100% on any day
func OverloadedMembers(assignments []planner.Assignment, days []calendar.Date, projectID string) []string {
	var out []string
	for _, m := range TeamLoad(assignments, days, projectID) {
		if m.Series.IsOverAllocated() {
			out = append(out, m.PersonID)
		}
	}
	return out
}

// Summary describes a series at a glance
type Summary struct {
	Total     float64
	Mean      float64
	Peak      float64
	PeakIndex int
	OverDays  int
}

// Summarize computes total, mean and peak load over the business days of the series
func Summarize(s Series) Summary {
	var business []float64
	for i, v := range s.Daily {
		if i < len(s.Days) && calendar.IsWeekend(s.Days[i]) {
			continue
		}
		business = append(business, v)
	}

	sum := Summary{PeakIndex: -1, OverDays: len(s.OverAllocatedDays())}
	if len(s.Daily) == 0 {
		return sum
	}
	sum.Total = floats.Sum(s.Daily)
	sum.PeakIndex = floats.MaxIdx(s.Daily)
	sum.Peak = s.Daily[sum.PeakIndex]
	if len(business) > 0 {
		sum.Mean = stat.Mean(business, nil)
	}
	return sum
}
