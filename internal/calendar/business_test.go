package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name     string
		day      string
		expected bool
	}{
		{"Saturday", "2025-01-04", true},
		{"Sunday", "2025-01-05", true},
		{"Monday", "2025-01-06", false},
		{"Friday", "2025-01-10", false},
		{"Leap day Thursday", "2024-02-29", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWeekend(date(t, tt.day)))
			assert.Equal(t, !tt.expected, IsBusinessDay(date(t, tt.day)))
		})
	}
}

func TestBusinessDaysBetweenInclusive(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"Mon to Fri", "2025-01-06", "2025-01-10", 5},
		{"Same weekday", "2025-01-06", "2025-01-06", 1},
		{"Same weekend day", "2025-01-04", "2025-01-04", 0},
		{"Weekend only", "2024-01-06", "2024-01-07", 0},
		{"Fri to Mon", "2025-01-03", "2025-01-06", 2},
		{"Two full weeks", "2025-01-06", "2025-01-19", 10},
		{"Month of January 2024", "2024-01-01", "2024-01-31", 23},
		{"Reversed order", "2025-01-10", "2025-01-06", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BusinessDaysBetweenInclusive(date(t, tt.start), date(t, tt.end)))
		})
	}
}

func TestBusinessDaysBetweenInclusive_Antisymmetric(t *testing.T) {
	base := date(t, "2024-12-20")
	for i := 0; i < 40; i++ {
		for j := i; j < 40; j++ {
			a, b := base.AddDays(i), base.AddDays(j)
			if a.Equal(b) {
				continue
			}
			assert.Equal(t, BusinessDaysBetweenInclusive(a, b), -BusinessDaysBetweenInclusive(b, a),
				"antisymmetry for %s..%s", a, b)
		}
	}
}

func TestBusinessDaysBetweenInclusive_MatchesDayWalk(t *testing.T) {
	base := date(t, "2025-02-01")
	for span := 0; span < 60; span++ {
		end := base.AddDays(span)
		walked := 0
		for _, d := range EachDay(base, span+1) {
			if IsBusinessDay(d) {
				walked++
			}
		}
		assert.Equal(t, walked, BusinessDaysBetweenInclusive(base, end), "span %d", span)
	}
}

func TestBusinessOffset(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		target   string
		expected int
	}{
		{"Same day", "2025-01-06", "2025-01-06", 0},
		{"Mon to Wed", "2025-01-06", "2025-01-08", 2},
		{"Fri to next Mon", "2025-01-03", "2025-01-06", 1},
		{"Mon to Sat does not count Sat", "2025-01-06", "2025-01-11", 4},
		{"Backward Wed to Mon", "2025-01-08", "2025-01-06", -2},
		{"Backward Mon to previous Fri", "2025-01-06", "2025-01-03", -1},
		{"Weekend base", "2025-01-04", "2025-01-06", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BusinessOffset(date(t, tt.base), date(t, tt.target)))
		})
	}
}

func TestCalendarSpanForWeekdays(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		weekdays int
		dir      int
		expected int
	}{
		{"Zero weekdays", "2025-01-06", 0, 1, 0},
		{"Fri forward 2", "2025-01-03", 2, 1, 4},
		{"Mon forward 4", "2025-01-06", 4, 1, 4},
		{"Mon forward 5 crosses weekend", "2025-01-06", 5, 1, 7},
		{"Mon backward 1", "2025-01-06", 1, -1, 3},
		{"Mon backward 10", "2025-10-27", 10, -1, 14},
		{"Wed backward 5", "2025-01-08", 5, -1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalendarSpanForWeekdays(date(t, tt.base), tt.weekdays, tt.dir))
		})
	}
}

func TestAddBusinessDays(t *testing.T) {
	assert.Equal(t, "2025-01-07", AddBusinessDays(date(t, "2025-01-02"), 3).String())
	assert.Equal(t, "2025-01-06", AddBusinessDays(date(t, "2025-01-03"), 1).String())
	assert.Equal(t, "2025-01-10", AddBusinessDays(date(t, "2025-01-06"), 4).String())

	// Zero or negative yields input
	for _, d := range EachDay(date(t, "2025-01-01"), 14) {
		assert.Equal(t, d, AddBusinessDays(d, 0))
		assert.Equal(t, d, AddBusinessDays(d, -3))
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		day      string
		expected string
	}{
		{"2025-10-27", "2025-10-27"}, // Monday
		{"2025-10-29", "2025-10-27"}, // Wednesday
		{"2025-11-01", "2025-10-27"}, // Saturday
		{"2025-11-02", "2025-10-27"}, // Sunday
		{"2025-01-01", "2024-12-30"}, // Crosses year boundary
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.expected, MondayOf(date(t, tt.day)).String())
		})
	}
}
