package viewport

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/belphemur/capacity-planner/internal/calendar"
)

// Segment is a header cell spanning contiguous days of one month or year
type Segment struct {
	Key   string
	Label string
	Span  int
	Width float64
}

// EndDate is the last calendar day of the window
func (m *Model) EndDate() calendar.Date {
	return m.view.Start.AddDays(m.view.Days - 1)
}

// DaySequence lists the weekdays of [start, start+days). It is derived on every
// call so it always reflects the latest window.
func (m *Model) DaySequence() []calendar.Date {
	days := make([]calendar.Date, 0, m.view.Days)
	for i := 0; i < m.view.Days; i++ {
		d := m.view.Start.AddDays(i)
		if calendar.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// DayOffsets is the left pixel offset of every column
func (m *Model) DayOffsets() []float64 {
	n := len(m.DaySequence())
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = m.Left(i)
	}
	return offsets
}

// ContentWidth is the pixel width of all columns
func (m *Model) ContentWidth() float64 {
	return float64(len(m.DaySequence())) * m.view.PxPerDay
}

// Left is the pixel offset of column i
func (m *Model) Left(i int) float64 {
	return float64(i) * m.view.PxPerDay
}

// Width is the pixel width of column i
func (m *Model) Width(int) float64 {
	return m.view.PxPerDay
}

// IndexFromX maps a content x coordinate to a column, clamped to the window
func (m *Model) IndexFromX(x float64) int {
	n := len(m.DaySequence())
	if n == 0 {
		return 0
	}
	i := int(math.Floor(x / m.view.PxPerDay))
	return min(n-1, max(0, i))
}

// IndexOf returns the column of d, or of the next weekday when d falls on a
// weekend. Dates past the window map to the last column.
func (m *Model) IndexOf(d calendar.Date) int {
	days := m.DaySequence()
	if len(days) == 0 {
		return 0
	}
	i := sort.Search(len(days), func(i int) bool { return !days[i].Before(d) })
	return min(i, len(days)-1)
}

// BusinessSegment returns the left offset and width of a bar covering
// [start, end]. Bars keep a 2px gap and are never narrower than 1px.
func (m *Model) BusinessSegment(start, end calendar.Date) (left, width float64) {
	days := m.DaySequence()
	if len(days) == 0 {
		return 0, 1
	}
	px := m.view.PxPerDay
	left = float64(max(0, calendar.BusinessOffset(days[0], start))) * px
	width = max(1, float64(calendar.BusinessDaysBetweenInclusive(start, end))*px-2)
	return left, width
}

// WeekStarts lists the columns that fall on a Monday
func (m *Model) WeekStarts() []int {
	var out []int
	for i, d := range m.DaySequence() {
		if d.Weekday() == time.Monday {
			out = append(out, i)
		}
	}
	return out
}

// MonthSegments groups columns into month header cells
func (m *Model) MonthSegments() []Segment {
	return m.segments(func(d calendar.Date) (string, string) {
		key := strconv.Itoa(d.Year()) + "-" + twoDigits(int(d.Month()))
		return key, d.Month().String() + " " + strconv.Itoa(d.Year())
	})
}

// YearSegments groups columns into year header cells
func (m *Model) YearSegments() []Segment {
	return m.segments(func(d calendar.Date) (string, string) {
		y := strconv.Itoa(d.Year())
		return y, y
	})
}

func (m *Model) segments(keyOf func(calendar.Date) (string, string)) []Segment {
	var out []Segment
	for _, d := range m.DaySequence() {
		key, label := keyOf(d)
		if n := len(out); n > 0 && out[n-1].Key == key {
			out[n-1].Span++
			out[n-1].Width += m.view.PxPerDay
			continue
		}
		out = append(out, Segment{Key: key, Label: label, Span: 1, Width: m.view.PxPerDay})
	}
	return out
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
