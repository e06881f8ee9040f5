// Package viewport keeps the timeline window (start date, calendar day count and
// zoom) and grows it in business-day chunks as the user scrolls toward an edge.
package viewport

import (
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Defaults for the window and its growth
const (
	MinDays           = 7
	MinZoom           = 24.0
	MaxZoom           = 64.0
	DefaultZoom       = 56.0
	EdgeThresholdDays = 4
	ChunkWeekdays     = 5

	// initial window: two weeks before this week, seven weeks of weekdays
	initWeekdaysBack = 10
	initWeekdays     = 35
)

// Mode picks how the scroll offset follows a window extension
type Mode int

const (
	// ModeAnchor keeps the content under the viewport center in place
	ModeAnchor Mode = iota
	// ModeJump moves the offset by the requested weekday count
	ModeJump
)

// Extension reports what a scroll event did to the window
type Extension int

const (
	ExtensionNone Extension = iota
	ExtensionPrepended
	ExtensionAppended
	ExtensionSuppressed
)

func (e Extension) String() string {
	switch e {
	case ExtensionPrepended:
		return "prepended"
	case ExtensionAppended:
		return "appended"
	case ExtensionSuppressed:
		return "suppressed"
	default:
		return "none"
	}
}

// View is the window state. Days counts calendar days from Start; only weekdays
// get a column.
type View struct {
	Start    calendar.Date
	Days     int
	PxPerDay float64
}

// Options tune the model, zero values fall back to the package defaults
type Options struct {
	MinDays           int
	MinZoom           float64
	MaxZoom           float64
	EdgeThresholdDays float64
	ChunkWeekdays     int
	// Cooldown drops scroll-edge triggers that arrive sooner than this after the
	// previous extension. Zero relies on the in-flight guard only.
	Cooldown time.Duration
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinDays <= 0 {
		o.MinDays = MinDays
	}
	if o.MinZoom <= 0 {
		o.MinZoom = MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = MaxZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = o.MinZoom
	}
	if o.EdgeThresholdDays <= 0 {
		o.EdgeThresholdDays = EdgeThresholdDays
	}
	if o.ChunkWeekdays <= 0 {
		o.ChunkWeekdays = ChunkWeekdays
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Model owns the view window. It is driven from a single event loop; the
// atomic guard only protects against re-entrant extension triggered from
// inside a scroll callback.
type Model struct {
	view      View
	opts      Options
	surface   Surface
	extending *atomic.Bool
	lastGrow  *atomic.Time
	onChange  func(View)
	logger    zerolog.Logger
}

// New creates a model over the given surface. surface may be nil for a
// headless model that only derives layout.
func New(opts Options, surface Surface) *Model {
	opts = opts.withDefaults()
	return &Model{
		view:      View{Days: opts.MinDays, PxPerDay: clampZoom(DefaultZoom, opts)},
		opts:      opts,
		surface:   surface,
		extending: atomic.NewBool(false),
		lastGrow:  atomic.NewTime(time.Time{}),
		logger:    logging.GetLogger("viewport"),
	}
}

// OnChange registers a hook called after every window change
func (m *Model) OnChange(fn func(View)) {
	m.onChange = fn
}

// View returns the current window
func (m *Model) View() View {
	return m.view
}

// Init positions the window two weeks of weekdays before the Monday of today's
// week and spans seven weeks of weekdays. The scroll offset resets to 0.
func (m *Model) Init(today calendar.Date) {
	monday := calendar.MondayOf(today)
	start := monday.AddDays(-calendar.CalendarSpanForWeekdays(monday, initWeekdaysBack, -1))
	days := 1 + calendar.CalendarSpanForWeekdays(start, initWeekdays-1, 1)

	m.view.Start = start
	m.view.Days = max(m.opts.MinDays, days)
	m.setScroll(0)

	m.logger.Debug().
		Str("today", today.String()).
		Str("start", start.String()).
		Int("days", m.view.Days).
		Msg("Viewport initialized")
	m.changed()
}

// Restore applies a persisted view state, clamping days and zoom
func (m *Model) Restore(v planner.ViewState) {
	if !v.Start.IsZero() {
		m.view.Start = v.Start
	}
	if v.Days > 0 {
		m.view.Days = max(m.opts.MinDays, v.Days)
	}
	if v.PxPerDay > 0 {
		m.view.PxPerDay = clampZoom(v.PxPerDay, m.opts)
	}
	m.changed()
}

// Apply writes the window into a persisted view state, keeping mode and selection
func (m *Model) Apply(v planner.ViewState) planner.ViewState {
	v.Start = m.view.Start
	v.Days = m.view.Days
	v.PxPerDay = m.view.PxPerDay
	return v
}

// SetStart moves the window start without changing its length
func (m *Model) SetStart(d calendar.Date) {
	m.view.Start = d
	m.changed()
}

// SetDays changes the window length, never below the minimum
func (m *Model) SetDays(n int) {
	m.view.Days = max(m.opts.MinDays, n)
	m.changed()
}

// SetZoom changes the column width, clamped to the zoom range. The column under
// the viewport center stays under it.
func (m *Model) SetZoom(px float64) {
	next := clampZoom(px, m.opts)
	prev := m.view.PxPerDay
	if next == prev {
		return
	}
	m.view.PxPerDay = next
	if m.surface != nil && prev > 0 {
		half := m.surface.ClientWidth() / 2
		center := (m.surface.ScrollLeft() + half) / prev
		m.setScroll(center*next - half)
	}
	m.changed()
}

// JumpTo scrolls so date's column is at the left edge. A date outside the
// window re-centres the window around it first.
func (m *Model) JumpTo(d calendar.Date) {
	if d.Before(m.view.Start) || d.After(m.EndDate()) {
		monday := calendar.MondayOf(d)
		m.view.Start = monday.AddDays(-calendar.CalendarSpanForWeekdays(monday, initWeekdaysBack, -1))
		m.logger.Debug().Str("date", d.String()).Msg("Jump outside window, recentering")
	}
	m.setScroll(m.Left(m.IndexOf(d)))
	m.changed()
}

// Prepend grows the window backward by w weekdays
func (m *Model) Prepend(w int, mode Mode) {
	if w <= 0 {
		return
	}
	before := len(m.DaySequence())
	span := calendar.CalendarSpanForWeekdays(m.view.Start, w, -1)
	m.view.Start = m.view.Start.AddDays(-span)
	m.view.Days += span
	added := len(m.DaySequence()) - before

	if m.surface != nil {
		left := m.surface.ScrollLeft()
		switch mode {
		case ModeJump:
			m.setScroll(left + float64(w)*m.view.PxPerDay)
		default:
			half := m.surface.ClientWidth() / 2
			anchor := left + half + float64(added)*m.view.PxPerDay
			m.setScroll(anchor - half)
		}
	}

	m.logger.Debug().Int("weekdays", w).Int("span", span).Str("start", m.view.Start.String()).Msg("Window prepended")
	m.changed()
}

// Append grows the window forward by w weekdays
func (m *Model) Append(w int, mode Mode) {
	if w <= 0 {
		return
	}
	span := calendar.CalendarSpanForWeekdays(m.EndDate(), w, 1)
	m.view.Days += span

	if m.surface != nil && mode == ModeJump {
		m.setScroll(m.surface.ScrollLeft() + float64(w)*m.view.PxPerDay)
	}

	m.logger.Debug().Int("weekdays", w).Int("span", span).Int("days", m.view.Days).Msg("Window appended")
	m.changed()
}

// OnScroll checks the scroll offset against both edges and extends the window by
// one chunk when close enough. Triggers arriving while an extension is in flight,
// or inside the cooldown, are dropped rather than queued.
func (m *Model) OnScroll() Extension {
	if m.surface == nil {
		return ExtensionNone
	}
	left := m.surface.ScrollLeft()
	client := m.surface.ClientWidth()
	width := m.surface.ScrollWidth()
	threshold := m.opts.EdgeThresholdDays * m.view.PxPerDay

	nearLeft := left < threshold
	nearRight := left+client > width-threshold
	if !nearLeft && !nearRight {
		return ExtensionNone
	}

	if m.opts.Cooldown > 0 {
		if last := m.lastGrow.Load(); !last.IsZero() && m.opts.Now().Sub(last) < m.opts.Cooldown {
			return ExtensionSuppressed
		}
	}
	if !m.extending.CompareAndSwap(false, true) {
		m.logger.Trace().Msg("Extension already in flight, dropping scroll trigger")
		return ExtensionSuppressed
	}
	defer m.extending.Store(false)
	m.lastGrow.Store(m.opts.Now())

	if nearLeft {
		m.Prepend(m.opts.ChunkWeekdays, ModeAnchor)
		return ExtensionPrepended
	}
	m.Append(m.opts.ChunkWeekdays, ModeAnchor)
	return ExtensionAppended
}

// Extending reports whether an extension is currently in flight
func (m *Model) Extending() bool {
	return m.extending.Load()
}

func (m *Model) setScroll(x float64) {
	if m.surface == nil {
		return
	}
	limit := m.ContentWidth() - m.surface.ClientWidth()
	x = min(x, limit)
	m.surface.SetScrollLeft(max(0, x))
}

func (m *Model) changed() {
	if m.onChange != nil {
		m.onChange(m.view)
	}
}

func clampZoom(px float64, opts Options) float64 {
	return min(opts.MaxZoom, max(opts.MinZoom, px))
}
