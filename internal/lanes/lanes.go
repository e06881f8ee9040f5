// Package lanes stacks overlapping assignments of one (person, project) row into
// vertical lanes so concurrent bars never draw on top of each other.
package lanes

import (
	"sort"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Row layout in pixels
const (
	RowMin     = 44
	LaneHeight = 30
	BarHeight  = 28
	PadY       = 10
)

// Laned is an assignment placed on a lane. StartIndex and EndIndex are
// calendar-day offsets from the base date used for the computation.
type Laned struct {
	planner.Assignment
	Lane       int
	StartIndex int
	EndIndex   int
}

// Result is the lane layout of one row
type Result struct {
	Items     []Laned
	LaneCount int
}

// ToDayIndex returns the calendar-day offset of d from base
func ToDayIndex(base, d calendar.Date) int {
	return calendar.DaysBetweenInclusive(base, d) - 1
}

// Compute assigns every item to the lowest lane whose last end is strictly before
// the item's start. Items are visited in (start, end) order, which makes the
// greedy scan optimal: the lane count equals the maximum overlap depth.
// LaneCount is at least 1 so an empty row still reserves one lane.
func Compute(base calendar.Date, items []planner.Assignment) Result {
	sorted := append([]planner.Assignment(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Start.Compare(sorted[j].Start); c != 0 {
			return c < 0
		}
		return sorted[i].End.Before(sorted[j].End)
	})

	var lastEndByLane []int
	out := make([]Laned, 0, len(sorted))
	for _, a := range sorted {
		s := ToDayIndex(base, a.Start)
		e := ToDayIndex(base, a.End)

		lane := 0
		for lane < len(lastEndByLane) && lastEndByLane[lane] >= s {
			lane++
		}
		if lane == len(lastEndByLane) {
			lastEndByLane = append(lastEndByLane, e)
		} else {
			lastEndByLane[lane] = e
		}
		out = append(out, Laned{Assignment: a, Lane: lane, StartIndex: s, EndIndex: e})
	}

	return Result{Items: out, LaneCount: max(1, len(lastEndByLane))}
}

// ForRow filters assignments down to one (person, project) pair and lays them out
func ForRow(base calendar.Date, assignments []planner.Assignment, personID, projectID string) Result {
	var row []planner.Assignment
	for _, a := range assignments {
		if a.PersonID == personID && a.ProjectID == projectID {
			row = append(row, a)
		}
	}
	return Compute(base, row)
}

// RowHeight is the pixel height of a row holding laneCount lanes
func RowHeight(laneCount int) int {
	return max(RowMin, PadY*2+laneCount*LaneHeight)
}

// RowHeights computes the height of every subrow keyed by subrow key.
// Placeholder rows get the minimum height.
func RowHeights(base calendar.Date, rows []planner.Subrow, assignments []planner.Assignment) map[string]int {
	heights := make(map[string]int, len(rows))
	for _, r := range rows {
		if r.Kind == planner.SubrowAdd {
			heights[r.Key] = RowMin
			continue
		}
		res := ForRow(base, assignments, r.PersonID, r.ProjectID)
		heights[r.Key] = RowHeight(res.LaneCount)
	}
	return heights
}

// LaneOf returns the lane of the assignment with the given ID
func (r Result) LaneOf(id string) (int, bool) {
	for _, it := range r.Items {
		if it.ID == id {
			return it.Lane, true
		}
	}
	return 0, false
}
