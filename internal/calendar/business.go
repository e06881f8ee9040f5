package calendar

import "time"

// IsWeekend reports whether d falls on a Saturday or Sunday.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether d is a Monday through Friday.
func IsBusinessDay(d Date) bool {
	return !IsWeekend(d)
}

// BusinessDaysBetweenInclusive counts weekdays between a and b, both included.
// When b is before a the count is taken over the ordered pair and negated.
func BusinessDaysBetweenInclusive(a, b Date) int {
	if b.Before(a) {
		return -BusinessDaysBetweenInclusive(b, a)
	}
	total := DaysBetweenInclusive(a, b)
	weeks := total / 7
	count := weeks * 5
	// Remaining partial week, walked day by day.
	for d := a.AddDays(weeks * 7); !d.After(b); d = d.AddDays(1) {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// BusinessOffset returns the signed number of weekdays walked from base to d.
// base itself is never counted; the result is 0 when both dates are equal.
func BusinessOffset(base, d Date) int {
	if base.Equal(d) {
		return 0
	}
	step := 1
	if d.Before(base) {
		step = -1
	}
	offset := 0
	for cur := base; !cur.Equal(d); {
		cur = cur.AddDays(step)
		if IsBusinessDay(cur) {
			offset += step
		}
	}
	return offset
}

// CalendarSpanForWeekdays returns how many calendar days must be walked from base
// in direction dir (+1 forward, -1 backward) to pass weekdays business days.
// base itself is not counted.
func CalendarSpanForWeekdays(base Date, weekdays int, dir int) int {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	span, counted := 0, 0
	for counted < weekdays {
		span++
		if IsBusinessDay(base.AddDays(dir * span)) {
			counted++
		}
	}
	return span
}

// AddBusinessDays advances start by n weekdays, skipping weekends.
// n <= 0 returns start unchanged.
func AddBusinessDays(start Date, n int) Date {
	if n <= 0 {
		return start
	}
	return start.AddDays(CalendarSpanForWeekdays(start, n, 1))
}

// MondayOf returns the Monday of the Monday-to-Sunday week containing d.
func MondayOf(d Date) Date {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}
