package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(t *testing.T, start, end string) Range {
	t.Helper()
	return NewRange(date(t, start), date(t, end))
}

func weekdaysFrom(t *testing.T, start string, calendarDays int) []Date {
	t.Helper()
	var out []Date
	for _, d := range EachDay(date(t, start), calendarDays) {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

func TestClampDateRange(t *testing.T) {
	r := ClampDateRange(date(t, "2025-01-10"), date(t, "2025-01-05"))
	assert.Equal(t, "2025-01-05", r.Start.String())
	assert.Equal(t, "2025-01-10", r.End.String())

	r = ClampDateRange(date(t, "2025-01-05"), date(t, "2025-01-10"))
	assert.Equal(t, "2025-01-05", r.Start.String())
	assert.Equal(t, "2025-01-10", r.End.String())
}

func TestClampToWindow(t *testing.T) {
	window := rng(t, "2024-01-01", "2024-01-31")

	tests := []struct {
		name      string
		input     Range
		expected  Range
		overlaps  bool
	}{
		{"Starts before window", rng(t, "2023-12-31", "2024-01-05"), rng(t, "2024-01-01", "2024-01-05"), true},
		{"After window", rng(t, "2024-02-01", "2024-02-05"), Range{}, false},
		{"Before window", rng(t, "2023-12-01", "2023-12-31"), Range{}, false},
		{"Inside window", rng(t, "2024-01-10", "2024-01-12"), rng(t, "2024-01-10", "2024-01-12"), true},
		{"Covers window", rng(t, "2023-01-01", "2025-01-01"), window, true},
		{"Touches last day", rng(t, "2024-01-31", "2024-02-10"), rng(t, "2024-01-31", "2024-01-31"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClampToWindow(tt.input, window)
			assert.Equal(t, tt.overlaps, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClampToWindow_Idempotent(t *testing.T) {
	window := rng(t, "2024-01-01", "2024-01-31")
	inputs := []Range{
		rng(t, "2023-12-31", "2024-01-05"),
		rng(t, "2024-01-10", "2024-03-01"),
		rng(t, "2023-01-01", "2025-01-01"),
	}
	for _, in := range inputs {
		once, ok := ClampToWindow(in, window)
		require.True(t, ok)
		twice, ok := ClampToWindow(once, window)
		require.True(t, ok)
		assert.Equal(t, once, twice)
	}
}

func TestClampToWindowIndex(t *testing.T) {
	// Business days of 2024-01-01 (Mon) .. 2024-01-14 (Sun): 10 entries
	days := weekdaysFrom(t, "2024-01-01", 14)
	require.Len(t, days, 10)

	tests := []struct {
		name     string
		input    Range
		expected IndexRange
		ok       bool
	}{
		{"Whole first week", rng(t, "2024-01-01", "2024-01-05"), IndexRange{0, 4}, true},
		{"Starts on weekend", rng(t, "2024-01-06", "2024-01-09"), IndexRange{5, 6}, true},
		{"Starts before window", rng(t, "2023-12-20", "2024-01-02"), IndexRange{0, 1}, true},
		{"Ends after window", rng(t, "2024-01-11", "2024-02-20"), IndexRange{8, 9}, true},
		{"Weekend inside window", rng(t, "2024-01-06", "2024-01-07"), IndexRange{}, false},
		{"Entirely after", rng(t, "2024-01-15", "2024-01-20"), IndexRange{}, false},
		{"Entirely before", rng(t, "2023-12-01", "2023-12-29"), IndexRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClampToWindowIndex(tt.input, days)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, ok := ClampToWindowIndex(rng(t, "2024-01-01", "2024-01-05"), nil)
	assert.False(t, ok, "empty day sequence never intersects")
}

func TestClampToWindowIndex_AgreesWithDateVariant(t *testing.T) {
	// Full calendar sequence: both variants must agree on overlap and bounds
	days := EachDay(date(t, "2024-01-01"), 31)
	window := NewRange(days[0], days[len(days)-1])
	base := date(t, "2023-12-20")

	for s := 0; s < 60; s += 3 {
		for length := 0; length < 20; length += 4 {
			r := NewRange(base.AddDays(s), base.AddDays(s+length))
			idx, idxOK := ClampToWindowIndex(r, days)
			dr, dateOK := ClampToWindow(r, window)
			require.Equal(t, dateOK, idxOK, "overlap mismatch for %s..%s", r.Start, r.End)
			if dateOK {
				assert.Equal(t, dr.Start, days[idx.Start])
				assert.Equal(t, dr.End, days[idx.End])
			}
		}
	}
}
