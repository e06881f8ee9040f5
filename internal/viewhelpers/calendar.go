package viewhelpers

import (
	"fmt"
	"time"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// CalendarDay represents a single day cell in the month view.
type CalendarDay struct {
	Date           calendar.Date
	DayOfMonth     int
	IsCurrentMonth bool // Is this day within the primary month being displayed?
	IsWeekend      bool
	Load           float64              // Summed allocation of the group on this day
	Bookings       []planner.Assignment // Assignments covering this day
}

// CalculateCalendarRange determines the first and last day of a month view that
// displays full weeks (Monday to Sunday) containing the month of refDate.
func CalculateCalendarRange(refDate calendar.Date) (startDate, endDate calendar.Date) {
	firstOfMonth := calendar.NewDate(refDate.Year(), refDate.Month(), 1)
	lastOfMonth := calendar.NewDate(refDate.Year(), refDate.Month()+1, 0)

	startDate = calendar.MondayOf(firstOfMonth)

	// Sunday closes the week
	daysToAdd := 0
	if lastOfMonth.Weekday() != time.Sunday {
		daysToAdd = 7 - int(lastOfMonth.Weekday())
	}
	endDate = lastOfMonth.AddDays(daysToAdd)

	return startDate, endDate
}

// StructureMonth lays out the month of refDate as weeks of days carrying the
// load and bookings of group. Weekend cells carry bookings but never load.
func StructureMonth(refDate calendar.Date, assignments []planner.Assignment, group capacity.Group) (monthName string, weeks [][]CalendarDay) {
	startDate, endDate := CalculateCalendarRange(refDate)
	monthName = fmt.Sprintf("%s %d", refDate.Month().String(), refDate.Year())

	days := calendar.EachDay(startDate, calendar.DaysBetweenInclusive(startDate, endDate))
	series := capacity.Aggregate(assignments, days, group)
	selected := capacity.Filter(assignments, group)

	var currentWeek []CalendarDay
	for i, d := range days {
		day := CalendarDay{
			Date:           d,
			DayOfMonth:     d.Day(),
			IsCurrentMonth: d.Month() == refDate.Month() && d.Year() == refDate.Year(),
			IsWeekend:      calendar.IsWeekend(d),
			Load:           series.Daily[i],
		}
		for _, a := range selected {
			if a.Range().Contains(d) {
				day.Bookings = append(day.Bookings, a)
			}
		}
		currentWeek = append(currentWeek, day)

		if d.Weekday() == time.Sunday {
			weeks = append(weeks, currentWeek)
			currentWeek = nil
		}
	}
	if len(currentWeek) > 0 {
		weeks = append(weeks, currentWeek)
	}

	return monthName, weeks
}
