package viewport

import (
	"testing"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySequence_WeekdaysOnly(t *testing.T) {
	m, _ := newInitialized(t, 800)
	for _, d := range m.DaySequence() {
		assert.True(t, calendar.IsBusinessDay(d), d.String())
	}

	offsets := m.DayOffsets()
	require.Len(t, offsets, 35)
	assert.Zero(t, offsets[0])
	assert.InDelta(t, 34*DefaultZoom, offsets[34], 1e-9)
	assert.InDelta(t, 35*DefaultZoom, m.ContentWidth(), 1e-9)
}

func TestDaySequence_FollowsLatestWindow(t *testing.T) {
	m, _ := newInitialized(t, 800)
	first := m.DaySequence()
	m.Append(5, ModeAnchor)
	assert.Len(t, m.DaySequence(), len(first)+5)
	assert.Len(t, first, 35)
}

func TestWeekStarts(t *testing.T) {
	m, _ := newInitialized(t, 800)
	assert.Equal(t, []int{0, 5, 10, 15, 20, 25, 30}, m.WeekStarts())
}

func TestMonthAndYearSegments(t *testing.T) {
	m, _ := newInitialized(t, 800)

	months := m.MonthSegments()
	require.Len(t, months, 2)
	assert.Equal(t, Segment{Key: "2025-10", Label: "October 2025", Span: 15, Width: 15 * DefaultZoom}, months[0])
	assert.Equal(t, Segment{Key: "2025-11", Label: "November 2025", Span: 20, Width: 20 * DefaultZoom}, months[1])

	years := m.YearSegments()
	require.Len(t, years, 1)
	assert.Equal(t, "2025", years[0].Label)
	assert.Equal(t, 35, years[0].Span)
}

func TestYearSegments_AcrossNewYear(t *testing.T) {
	m, _ := NewHeadless(Options{}, 800)
	m.SetStart(calendar.MustParseISO("2025-12-29"))
	m.SetDays(14)

	years := m.YearSegments()
	require.Len(t, years, 2)
	assert.Equal(t, 3, years[0].Span)
	assert.Equal(t, 7, years[1].Span)
}

func TestIndexFromX(t *testing.T) {
	m, _ := newInitialized(t, 800)
	tests := []struct {
		x        float64
		expected int
	}{
		{-10, 0},
		{0, 0},
		{55, 0},
		{57, 1},
		{1e6, 34},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.IndexFromX(tt.x), "x=%v", tt.x)
	}
}

func TestIndexOf(t *testing.T) {
	m, _ := newInitialized(t, 800)
	assert.Equal(t, 0, m.IndexOf(calendar.MustParseISO("2025-10-13")))
	assert.Equal(t, 5, m.IndexOf(calendar.MustParseISO("2025-10-18")))
	assert.Equal(t, 34, m.IndexOf(calendar.MustParseISO("2026-01-01")))
	assert.Equal(t, 0, m.IndexOf(calendar.MustParseISO("2025-01-01")))
}

func TestBusinessSegment(t *testing.T) {
	m, _ := newInitialized(t, 800)

	left, width := m.BusinessSegment(calendar.MustParseISO("2025-10-15"), calendar.MustParseISO("2025-10-21"))
	assert.InDelta(t, 2*DefaultZoom, left, 1e-9)
	assert.InDelta(t, 5*DefaultZoom-2, width, 1e-9)

	left, _ = m.BusinessSegment(calendar.MustParseISO("2025-09-01"), calendar.MustParseISO("2025-10-14"))
	assert.Zero(t, left)

	_, width = m.BusinessSegment(calendar.MustParseISO("2025-10-18"), calendar.MustParseISO("2025-10-19"))
	assert.Equal(t, 1.0, width)
}
