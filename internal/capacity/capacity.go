// Package capacity aggregates assignment allocations into per-day load series
// and business-day weighted man-day totals for a person or project row.
package capacity

import (
	"math"
	"strconv"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Group selects which assignments feed a series
type Group struct {
	Type constants.ViewMode
	ID   string
}

// PersonGroup is a shorthand for a person grouping
func PersonGroup(id string) Group {
	return Group{Type: constants.ViewModePerson, ID: id}
}

// ProjectGroup is a shorthand for a project grouping
func ProjectGroup(id string) Group {
	return Group{Type: constants.ViewModeProject, ID: id}
}

// Series is the load of one group over a day sequence
type Series struct {
	Days         []calendar.Date
	Daily        []float64
	TotalManDays float64
}

// PersonAssignments returns every assignment of the person, time off included,
// so a person's row reflects their true total load.
func PersonAssignments(assignments []planner.Assignment, personID string) []planner.Assignment {
	var out []planner.Assignment
	for _, a := range assignments {
		if a.PersonID == personID {
			out = append(out, a)
		}
	}
	return out
}

// ProjectAssignments returns only the assignments booked on the project.
// Time off never counts as project effort.
func ProjectAssignments(assignments []planner.Assignment, projectID string) []planner.Assignment {
	var out []planner.Assignment
	for _, a := range assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

// ProjectTeamAssignments returns the project's assignments plus the time off of
// everyone on the project's team. Used to surface team overload, never to
// compute the project's own coverage.
func ProjectTeamAssignments(assignments []planner.Assignment, projectID string) []planner.Assignment {
	team := make(map[string]bool)
	for _, a := range assignments {
		if a.ProjectID == projectID {
			team[a.PersonID] = true
		}
	}
	var out []planner.Assignment
	for _, a := range assignments {
		if a.ProjectID == projectID || (a.IsTimeOff() && team[a.PersonID]) {
			out = append(out, a)
		}
	}
	return out
}

// Filter applies the group's inclusion rule
func Filter(assignments []planner.Assignment, group Group) []planner.Assignment {
	if group.Type == constants.ViewModeProject {
		return ProjectAssignments(assignments, group.ID)
	}
	return PersonAssignments(assignments, group.ID)
}

// Aggregate sums allocations per day over days for the group. Weekend cells never
// accumulate load, even when a range spans them. TotalManDays is the sum over
// assignments of business days in the range clamped to [days[0], days[last]]
// times allocation.
func Aggregate(assignments []planner.Assignment, days []calendar.Date, group Group) Series {
	return aggregate(Filter(assignments, group), days)
}

func aggregate(selected []planner.Assignment, days []calendar.Date) Series {
	s := Series{Days: days, Daily: make([]float64, len(days))}
	if len(days) == 0 {
		return s
	}
	window := calendar.NewRange(days[0], days[len(days)-1])

	for _, a := range selected {
		alloc := a.Allocation.Float()
		if idx, ok := calendar.ClampToWindowIndex(a.Range(), days); ok {
			for i := idx.Start; i <= idx.End; i++ {
				if calendar.IsWeekend(days[i]) {
					continue
				}
				s.Daily[i] += alloc
			}
		}
		if r, ok := calendar.ClampToWindow(a.Range(), window); ok {
			s.TotalManDays += ManDays(r.Start, r.End, a.Allocation)
		}
	}
	return s
}

// ManDays is the effort of one allocation over the business days of [start, end].
// Inverted ranges count as zero.
func ManDays(start, end calendar.Date, allocation constants.Allocation) float64 {
	days := max(0, calendar.BusinessDaysBetweenInclusive(start, end))
	return float64(days) * allocation.Float()
}

// FormattedDaily renders each day as a rounded percentage, e.g. "150%"
func (s Series) FormattedDaily() []string {
	out := make([]string, len(s.Daily))
	for i, v := range s.Daily {
		out[i] = FormatPercent(v)
	}
	return out
}

// FormatPercent renders a load factor as a rounded percentage
func FormatPercent(v float64) string {
	return strconv.Itoa(int(math.Round(v*100))) + "%"
}

// OverAllocatedDays returns the indices of days loaded above 100%
func (s Series) OverAllocatedDays() []int {
	var out []int
	for i, v := range s.Daily {
		if v > 1+1e-9 {
			out = append(out, i)
		}
	}
	return out
}

// IsOverAllocated reports whether any day is loaded above 100%
func (s Series) IsOverAllocated() bool {
	return len(s.OverAllocatedDays()) > 0
}
