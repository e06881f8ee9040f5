// Package dragcreate turns a long press and drag on a timeline row into a
// candidate assignment.
package dragcreate

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/viewport"
)

// Interaction timings and auto-scroll tuning
const (
	LongPressDelay        = 200 * time.Millisecond
	RightClickDelay       = 200 * time.Millisecond
	ContextMenuResetDelay = 10 * time.Millisecond
	AutoScrollSpeed       = 8.0
	AutoScrollEdge        = 100.0
)

// State of a drag interaction
type State int

const (
	StateIdle State = iota
	StatePressed
	StateActive
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Button identifies the pointer button of an event
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// Layout maps pointer positions to timeline days. *viewport.Model satisfies it.
type Layout interface {
	DaySequence() []calendar.Date
	IndexFromX(x float64) int
	BusinessSegment(start, end calendar.Date) (left, width float64)
}

var _ Layout = (*viewport.Model)(nil)

// RowLookup resolves a row key at commit time
type RowLookup func(key string) (planner.Subrow, bool)

// Preview is the bar drawn while dragging
type Preview struct {
	Start calendar.Date
	End   calendar.Date
	Left  float64
	Width float64
}

// Options tune the machine, zero values fall back to the package defaults
type Options struct {
	LongPressDelay        time.Duration
	RightClickDelay       time.Duration
	ContextMenuResetDelay time.Duration
	AutoScrollSpeed       float64
	AutoScrollEdge        float64
}

func (o Options) withDefaults() Options {
	if o.LongPressDelay <= 0 {
		o.LongPressDelay = LongPressDelay
	}
	if o.RightClickDelay <= 0 {
		o.RightClickDelay = RightClickDelay
	}
	if o.ContextMenuResetDelay <= 0 {
		o.ContextMenuResetDelay = ContextMenuResetDelay
	}
	if o.AutoScrollSpeed <= 0 {
		o.AutoScrollSpeed = AutoScrollSpeed
	}
	if o.AutoScrollEdge <= 0 {
		o.AutoScrollEdge = AutoScrollEdge
	}
	return o
}

// Machine tracks one drag-to-create gesture at a time
type Machine struct {
	mu      sync.Mutex
	opts    Options
	sched   Scheduler
	layout  Layout
	surface viewport.Surface

	state    State
	rowKey   string
	startIdx int
	endIdx   int
	pointerX float64
	timer    Timer
	frame    Frame
	dir      int
	counted  bool

	rightTimer   Timer
	rightLong    *atomic.Bool
	interactions *atomic.Int32
	blocked      *atomic.Bool

	logger zerolog.Logger
}

// New creates a machine. surface may be nil, which disables auto-scroll.
func New(opts Options, sched Scheduler, layout Layout, surface viewport.Surface) *Machine {
	return &Machine{
		opts:         opts.withDefaults(),
		sched:        sched,
		layout:       layout,
		surface:      surface,
		rightLong:    atomic.NewBool(false),
		interactions: atomic.NewInt32(0),
		blocked:      atomic.NewBool(false),
		logger:       logging.GetLogger("drag-create"),
	}
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Press starts a gesture. A left press on a row arms the long-press timer; a right
// press is tracked on its own to tell a context menu from a long press.
func (m *Machine) Press(rowKey string, button Button, x float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if button == ButtonRight {
		m.stopRightTimer()
		m.rightLong.Store(false)
		m.rightTimer = m.sched.AfterFunc(m.opts.RightClickDelay, func() {
			m.rightLong.Store(true)
		})
		return
	}

	if m.state == StatePressed || m.state == StateActive {
		return
	}

	m.interactions.Inc()
	m.counted = true
	m.blocked.Store(true)

	m.state = StatePressed
	m.rowKey = rowKey
	m.startIdx = m.layout.IndexFromX(x)
	m.endIdx = m.startIdx
	m.timer = m.sched.AfterFunc(m.opts.LongPressDelay, m.activate)

	m.logger.Trace().Str("row", rowKey).Int("index", m.startIdx).Msg("Drag pressed")
}

func (m *Machine) activate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePressed {
		return
	}
	m.timer = nil
	m.state = StateActive
	m.logger.Debug().Str("row", m.rowKey).Int("index", m.startIdx).Msg("Drag activated")
}

// Move updates the drag end from the pointer's content x and its x inside the
// scroll container. Near either container edge an auto-scroll frame loop runs.
func (m *Machine) Move(x, containerX float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return
	}
	m.endIdx = m.layout.IndexFromX(x)
	m.pointerX = containerX

	dir := 0
	if m.surface != nil {
		switch {
		case containerX < m.opts.AutoScrollEdge:
			dir = -1
		case containerX > m.surface.ClientWidth()-m.opts.AutoScrollEdge:
			dir = 1
		}
	}
	m.setAutoScroll(dir)
}

func (m *Machine) setAutoScroll(dir int) {
	if dir == m.dir {
		return
	}
	m.stopFrame()
	m.dir = dir
	if dir != 0 {
		m.frame = m.sched.RequestFrame(m.tick)
	}
}

func (m *Machine) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive || m.dir == 0 || m.surface == nil {
		m.stopFrame()
		return
	}
	limit := max(0, m.surface.ScrollWidth()-m.surface.ClientWidth())
	left := m.surface.ScrollLeft() + float64(m.dir)*m.opts.AutoScrollSpeed
	m.surface.SetScrollLeft(min(limit, max(0, left)))
	m.endIdx = m.layout.IndexFromX(m.surface.ScrollLeft() + m.pointerX)
}

// Preview returns the bar for the current drag, only while active
func (m *Machine) Preview() (Preview, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return Preview{}, false
	}
	start, end, ok := m.span()
	if !ok {
		return Preview{}, false
	}
	left, width := m.layout.BusinessSegment(start, end)
	return Preview{Start: start, End: end, Left: left, Width: width}, true
}

func (m *Machine) span() (calendar.Date, calendar.Date, bool) {
	days := m.layout.DaySequence()
	if len(days) == 0 {
		return calendar.Date{}, calendar.Date{}, false
	}
	lo := min(m.startIdx, m.endIdx)
	hi := max(m.startIdx, m.endIdx)
	lo = min(max(lo, 0), len(days)-1)
	hi = min(max(hi, 0), len(days)-1)
	return days[lo], days[hi], true
}

// Release ends the gesture. Releasing an active drag on a row that still
// resolves yields a candidate; a release before activation is a plain click.
func (m *Machine) Release(button Button, rows RowLookup) (Candidate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if button == ButtonRight {
		m.stopRightTimer()
		m.rightTimer = m.sched.AfterFunc(m.opts.ContextMenuResetDelay, func() {
			m.rightLong.Store(false)
		})
		return Candidate{}, false
	}

	switch m.state {
	case StatePressed:
		m.state = StateCancelled
		m.reset()
		m.logger.Trace().Str("row", m.rowKey).Msg("Released before long press, treated as click")
		return Candidate{}, false
	case StateActive:
	default:
		return Candidate{}, false
	}

	start, end, ok := m.span()
	row, found := planner.Subrow{}, false
	if ok && rows != nil {
		row, found = rows(m.rowKey)
	}
	m.reset()
	if !ok || !found || row.PersonID == "" || row.ProjectID == "" {
		m.state = StateCancelled
		m.logger.Debug().Str("row", m.rowKey).Msg("Drag row no longer available, dropping candidate")
		return Candidate{}, false
	}

	m.state = StateCommitted
	c := Candidate{
		PersonID:   row.PersonID,
		ProjectID:  row.ProjectID,
		Start:      start,
		Duration:   max(1, calendar.BusinessDaysBetweenInclusive(start, end)),
		Allocation: constants.AllocationFull,
	}
	m.logger.Debug().
		Str("person_id", c.PersonID).
		Str("project_id", c.ProjectID).
		Str("start", c.Start.String()).
		Int("duration", c.Duration).
		Msg("Drag committed")
	return c, true
}

// Cancel aborts any in-flight gesture without producing a candidate
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePressed && m.state != StateActive {
		return
	}
	m.state = StateCancelled
	m.reset()
}

// ContextMenuAllowed reports whether a context menu may open now. It stays false
// while any left-button interaction is in flight or after a long right press.
func (m *Machine) ContextMenuAllowed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.blocked.Load() &&
		m.state != StatePressed &&
		m.state != StateActive &&
		m.timer == nil &&
		m.interactions.Load() == 0 &&
		!m.rightLong.Load()
}

// reset releases the timer and frame of the current gesture
func (m *Machine) reset() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.stopFrame()
	m.dir = 0
	if m.counted {
		m.counted = false
		if m.interactions.Dec() <= 0 {
			m.interactions.Store(0)
			m.blocked.Store(false)
		}
	}
}

func (m *Machine) stopFrame() {
	if m.frame != nil {
		m.frame.Stop()
		m.frame = nil
	}
}

func (m *Machine) stopRightTimer() {
	if m.rightTimer != nil {
		m.rightTimer.Stop()
		m.rightTimer = nil
	}
}
