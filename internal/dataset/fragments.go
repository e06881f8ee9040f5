package dataset

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Fragment sizing
const (
	FragmentWeeks      = 4
	PreloadBufferWeeks = 2
)

// fragmentEpoch anchors fragment boundaries so every date maps to exactly one fragment
var fragmentEpoch = calendar.NewDate(1970, 1, 5)

// Fragment is a Monday-aligned block of weeks and the assignments overlapping it
type Fragment struct {
	ID          string
	Start       calendar.Date
	End         calendar.Date
	Assignments []planner.Assignment
}

// FragmentOptions size the fragments; zero values use the defaults
type FragmentOptions struct {
	Weeks       int
	BufferWeeks int
}

// Fragments indexes a full assignment list into fragments loaded on demand,
// so a viewport only pays for the weeks around what it shows
type Fragments struct {
	mu     sync.Mutex
	all    []planner.Assignment
	weeks  int
	buffer int
	loaded map[string]*Fragment
	logger zerolog.Logger
}

// NewFragments creates an index over assignments
func NewFragments(assignments []planner.Assignment, opts FragmentOptions) *Fragments {
	if opts.Weeks <= 0 {
		opts.Weeks = FragmentWeeks
	}
	if opts.BufferWeeks < 0 {
		opts.BufferWeeks = 0
	} else if opts.BufferWeeks == 0 {
		opts.BufferWeeks = PreloadBufferWeeks
	}
	return &Fragments{
		all:    append([]planner.Assignment(nil), assignments...),
		weeks:  opts.Weeks,
		buffer: opts.BufferWeeks,
		loaded: make(map[string]*Fragment),
		logger: logging.GetLogger("fragments"),
	}
}

// Reset replaces the source assignments and drops every loaded fragment
func (f *Fragments) Reset(assignments []planner.Assignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = append([]planner.Assignment(nil), assignments...)
	f.loaded = make(map[string]*Fragment)
}

// FragmentStart returns the first day of the fragment containing d
func (f *Fragments) FragmentStart(d calendar.Date) calendar.Date {
	size := f.weeks * 7
	offset := calendar.DaysBetweenInclusive(fragmentEpoch, d) - 1
	idx := offset / size
	if offset < 0 && offset%size != 0 {
		idx--
	}
	return fragmentEpoch.AddDays(idx * size)
}

// LoadRange makes sure every fragment touching [start, end] plus the preload
// buffer is loaded. Returns how many fragments were newly loaded.
func (f *Fragments) LoadRange(start, end calendar.Date) int {
	r := calendar.ClampDateRange(start, end)
	bufferDays := f.buffer * 7
	from := f.FragmentStart(r.Start.AddDays(-bufferDays))
	to := r.End.AddDays(bufferDays)

	f.mu.Lock()
	defer f.mu.Unlock()

	added := 0
	for cur := from; !cur.After(to); cur = cur.AddDays(f.weeks * 7) {
		id := "fragment-" + cur.String()
		if _, ok := f.loaded[id]; ok {
			continue
		}
		frag := &Fragment{ID: id, Start: cur, End: cur.AddDays(f.weeks*7 - 1)}
		window := calendar.NewRange(frag.Start, frag.End)
		for _, a := range f.all {
			if a.Range().Overlaps(window) {
				frag.Assignments = append(frag.Assignments, a)
			}
		}
		f.loaded[id] = frag
		added++
	}

	if added > 0 {
		f.logger.Debug().
			Str("start", r.Start.String()).
			Str("end", r.End.String()).
			Int("fragments_loaded", added).
			Int("fragments_total", len(f.loaded)).
			Msg("Loaded assignment fragments")
	}
	return added
}

// Loaded lists loaded fragments ordered by start
func (f *Fragments) Loaded() []Fragment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

func (f *Fragments) sortedLocked() []Fragment {
	out := make([]Fragment, 0, len(f.loaded))
	for _, frag := range f.loaded {
		out = append(out, *frag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// AssignmentsForRange returns loaded assignments overlapping [start, end], each
// once even when it spans several fragments
func (f *Fragments) AssignmentsForRange(start, end calendar.Date) []planner.Assignment {
	window := calendar.ClampDateRange(start, end)
	return f.collect(window, func(a planner.Assignment) bool {
		return a.Range().Overlaps(window)
	})
}

// PrimaryAssignmentsForRange is the conservative variant: short assignments
// (under a quarter of the range) only need to overlap, longer ones must start
// inside the range
func (f *Fragments) PrimaryAssignmentsForRange(start, end calendar.Date) []planner.Assignment {
	window := calendar.ClampDateRange(start, end)
	rangeDays := calendar.DaysBetweenInclusive(window.Start, window.End) - 1
	return f.collect(window, func(a planner.Assignment) bool {
		span := calendar.DaysBetweenInclusive(a.Start, a.End) - 1
		if float64(span) < float64(rangeDays)*0.25 {
			return a.Range().Overlaps(window)
		}
		return window.Contains(a.Start)
	})
}

func (f *Fragments) collect(window calendar.Range, keep func(planner.Assignment) bool) []planner.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	var out []planner.Assignment
	for _, frag := range f.sortedLocked() {
		if !calendar.NewRange(frag.Start, frag.End).Overlaps(window) {
			continue
		}
		for _, a := range frag.Assignments {
			if seen[a.ID] || !keep(a) {
				continue
			}
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out
}
