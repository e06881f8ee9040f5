package calendar

import "sort"

// Range is an inclusive pair of calendar days.
type Range struct {
	Start Date `json:"start" yaml:"start"`
	End   Date `json:"end" yaml:"end"`
}

// NewRange builds a Range without reordering its endpoints.
func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

// ClampDateRange returns the range with its endpoints ordered, so inverted input
// (a drag moving leftward) becomes a valid start <= end range.
func ClampDateRange(a, b Date) Range {
	if b.Before(a) {
		return Range{Start: b, End: a}
	}
	return Range{Start: a, End: b}
}

// Contains reports whether d lies within r, endpoints included.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether r and o share at least one day.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// IndexRange is an inclusive pair of indices into a day sequence.
type IndexRange struct {
	Start int
	End   int
}

// Len returns the number of days covered by the index range.
func (r IndexRange) Len() int {
	return r.End - r.Start + 1
}

// ClampToWindow intersects r with window. The boolean is false when the ranges
// do not overlap; that is a normal outcome, not an error.
func ClampToWindow(r, window Range) (Range, bool) {
	if r.Start.After(window.End) || r.End.Before(window.Start) {
		return Range{}, false
	}
	return Range{
		Start: MaxDate(r.Start, window.Start),
		End:   MinDate(r.End, window.End),
	}, true
}

// ClampToWindowIndex intersects r with an ascending day sequence and returns the
// first index whose day is >= r.Start and the last index whose day is <= r.End.
// The boolean is false when the sequence is empty, when either search fails, or
// when r lies wholly outside [days[0], days[len-1]]. The outside test is the
// same one ClampToWindow applies to the sequence's first and last day.
func ClampToWindowIndex(r Range, days []Date) (IndexRange, bool) {
	n := len(days)
	if n == 0 {
		return IndexRange{}, false
	}
	if _, ok := ClampToWindow(r, Range{Start: days[0], End: days[n-1]}); !ok {
		return IndexRange{}, false
	}
	start := sort.Search(n, func(i int) bool { return !days[i].Before(r.Start) })
	end := sort.Search(n, func(i int) bool { return days[i].After(r.End) }) - 1
	if start >= n || end < 0 || end < start {
		// The range falls entirely inside a gap of the sequence (a weekend).
		return IndexRange{}, false
	}
	return IndexRange{Start: start, End: end}, true
}
