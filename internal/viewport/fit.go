package viewport

import (
	"time"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Padding around the data when fitting the window
const (
	fitPastDays    = 20
	fitFutureDays  = 60
	fitMarginDays  = 14
	fitMinimumDays = initWeekdays
)

// FitToAssignments sizes the window so every assignment is visible with a
// two-week margin, while still covering twenty days before and sixty days after
// today. The start is aligned to a Monday.
func (m *Model) FitToAssignments(today calendar.Date, assignments []planner.Assignment) {
	start := today.AddDays(-fitPastDays)
	switch start.Weekday() {
	case time.Saturday:
		start = start.AddDays(2)
	case time.Sunday:
		start = start.AddDays(1)
	}
	end := today.AddDays(fitFutureDays)

	if span, ok := planner.Span(assignments); ok {
		start = calendar.MinDate(start, span.Start.AddDays(-fitMarginDays))
		end = calendar.MaxDate(end, span.End.AddDays(fitMarginDays))
	}
	start = calendar.MondayOf(start)

	m.view.Start = start
	m.view.Days = max(m.opts.MinDays, fitMinimumDays, calendar.DaysBetweenInclusive(start, end))
	m.setScroll(0)

	m.logger.Debug().
		Str("start", start.String()).
		Str("end", end.String()).
		Int("assignments", len(assignments)).
		Msg("Window fitted to assignments")
	m.changed()
}

// NeedsExpansion reports whether any assignment reaches outside the window
func (m *Model) NeedsExpansion(assignments []planner.Assignment) bool {
	span, ok := planner.Span(assignments)
	if !ok {
		return false
	}
	return span.Start.Before(m.view.Start) || span.End.After(m.EndDate())
}
