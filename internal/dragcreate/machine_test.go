package dragcreate

import (
	"testing"
	"time"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

type fakeFrame struct {
	fn      func()
	stopped bool
}

func (f *fakeFrame) Stop() { f.stopped = true }

type fakeScheduler struct {
	timers []*fakeTimer
	frames []*fakeFrame
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) RequestFrame(fn func()) Frame {
	f := &fakeFrame{fn: fn}
	s.frames = append(s.frames, f)
	return f
}

func (s *fakeScheduler) fireLast(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, s.timers)
	timer := s.timers[len(s.timers)-1]
	if timer.stopped || timer.fired {
		return
	}
	timer.fired = true
	timer.fn()
}

func (s *fakeScheduler) lastFrame(t *testing.T) *fakeFrame {
	t.Helper()
	require.NotEmpty(t, s.frames)
	return s.frames[len(s.frames)-1]
}

var rows = map[string]planner.Subrow{
	"p1:j1":      {Kind: planner.SubrowItem, Key: "p1:j1", PersonID: "p1", ProjectID: "j1"},
	"p1:__add__": {Kind: planner.SubrowAdd, Key: "p1:__add__", PersonID: "p1"},
}

func lookup(key string) (planner.Subrow, bool) {
	r, ok := rows[key]
	return r, ok
}

func setup(t *testing.T) (*Machine, *fakeScheduler, *viewport.MemorySurface) {
	t.Helper()
	vp, surface := viewport.NewHeadless(viewport.Options{}, 800)
	vp.Init(calendar.MustParseISO("2025-10-27"))
	sched := &fakeScheduler{}
	return New(Options{}, sched, vp, surface), sched, surface
}

func TestDrag_LongPressThenDragCommits(t *testing.T) {
	m, sched, _ := setup(t)
	assert.Equal(t, StateIdle, m.State())
	assert.True(t, m.ContextMenuAllowed())

	m.Press("p1:j1", ButtonLeft, 112)
	assert.Equal(t, StatePressed, m.State())
	assert.Equal(t, LongPressDelay, sched.timers[0].delay)
	assert.False(t, m.ContextMenuAllowed())
	_, ok := m.Preview()
	assert.False(t, ok)

	sched.fireLast(t)
	assert.Equal(t, StateActive, m.State())

	m.Move(400, 300)
	assert.Empty(t, sched.frames)
	p, ok := m.Preview()
	require.True(t, ok)
	assert.Equal(t, "2025-10-15", p.Start.String())
	assert.Equal(t, "2025-10-22", p.End.String())
	assert.InDelta(t, 2*viewport.DefaultZoom, p.Left, 1e-9)
	assert.InDelta(t, 6*viewport.DefaultZoom-2, p.Width, 1e-9)

	c, ok := m.Release(ButtonLeft, lookup)
	require.True(t, ok)
	assert.Equal(t, StateCommitted, m.State())
	assert.Equal(t, Candidate{
		PersonID:   "p1",
		ProjectID:  "j1",
		Start:      calendar.MustParseISO("2025-10-15"),
		Duration:   6,
		Allocation: constants.AllocationFull,
	}, c)
	assert.True(t, m.ContextMenuAllowed())
}

func TestDrag_BackwardDragUsesMinMax(t *testing.T) {
	m, sched, _ := setup(t)
	m.Press("p1:j1", ButtonLeft, 400)
	sched.fireLast(t)
	m.Move(112, 300)

	c, ok := m.Release(ButtonLeft, lookup)
	require.True(t, ok)
	assert.Equal(t, "2025-10-15", c.Start.String())
	assert.Equal(t, 6, c.Duration)
}

func TestDrag_NoMovementIsOneDay(t *testing.T) {
	m, sched, _ := setup(t)
	m.Press("p1:j1", ButtonLeft, 0)
	sched.fireLast(t)

	c, ok := m.Release(ButtonLeft, lookup)
	require.True(t, ok)
	assert.Equal(t, "2025-10-13", c.Start.String())
	assert.Equal(t, 1, c.Duration)
}

func TestDrag_ReleaseBeforeTimerIsClick(t *testing.T) {
	m, sched, _ := setup(t)
	m.Press("p1:j1", ButtonLeft, 112)

	_, ok := m.Release(ButtonLeft, lookup)
	assert.False(t, ok)
	assert.Equal(t, StateCancelled, m.State())
	assert.True(t, sched.timers[0].stopped)
	assert.True(t, m.ContextMenuAllowed())

	// A late timer callback must not revive the gesture
	sched.timers[0].fn()
	assert.Equal(t, StateCancelled, m.State())
}

func TestDrag_MissingRowYieldsNothing(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"row filtered out", "p9:j9"},
		{"placeholder row", "p1:__add__"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sched, _ := setup(t)
			m.Press(tt.row, ButtonLeft, 112)
			sched.fireLast(t)
			m.Move(400, 300)

			_, ok := m.Release(ButtonLeft, lookup)
			assert.False(t, ok)
			assert.Equal(t, StateCancelled, m.State())
			assert.True(t, m.ContextMenuAllowed())
		})
	}
}

func TestDrag_Cancel(t *testing.T) {
	m, sched, _ := setup(t)
	m.Press("p1:j1", ButtonLeft, 112)
	sched.fireLast(t)
	m.Move(700, 750)
	frame := sched.lastFrame(t)

	m.Cancel()
	assert.Equal(t, StateCancelled, m.State())
	assert.True(t, frame.stopped)
	assert.True(t, m.ContextMenuAllowed())

	_, ok := m.Release(ButtonLeft, lookup)
	assert.False(t, ok)
}

func TestDrag_AutoScroll(t *testing.T) {
	m, sched, surface := setup(t)
	m.Press("p1:j1", ButtonLeft, 112)
	sched.fireLast(t)

	m.Move(750, 750)
	require.Len(t, sched.frames, 1)
	right := sched.lastFrame(t)

	right.fn()
	right.fn()
	assert.InDelta(t, 2*AutoScrollSpeed, surface.Left, 1e-9)
	p, ok := m.Preview()
	require.True(t, ok)
	// 16 + 750 = 766 → column 13
	assert.Equal(t, "2025-10-30", p.End.String())

	// Still in the right zone, no new frame
	m.Move(770, 754)
	assert.Len(t, sched.frames, 1)

	m.Move(66, 50)
	assert.True(t, right.stopped)
	require.Len(t, sched.frames, 2)
	left := sched.lastFrame(t)
	left.fn()
	left.fn()
	left.fn()
	assert.Zero(t, surface.Left)

	m.Move(400, 400)
	assert.True(t, left.stopped)

	_, ok = m.Release(ButtonLeft, lookup)
	assert.True(t, ok)
}

func TestDrag_RightButtonLongPressBlocksContextMenu(t *testing.T) {
	m, sched, _ := setup(t)

	m.Press("p1:j1", ButtonRight, 112)
	assert.Equal(t, RightClickDelay, sched.timers[0].delay)
	assert.True(t, m.ContextMenuAllowed())
	assert.Equal(t, StateIdle, m.State())

	sched.fireLast(t)
	assert.False(t, m.ContextMenuAllowed())

	_, ok := m.Release(ButtonRight, lookup)
	assert.False(t, ok)
	require.Len(t, sched.timers, 2)
	assert.Equal(t, ContextMenuResetDelay, sched.timers[1].delay)
	sched.fireLast(t)
	assert.True(t, m.ContextMenuAllowed())
}

func TestDrag_SecondPressWhileActiveIgnored(t *testing.T) {
	m, sched, _ := setup(t)
	m.Press("p1:j1", ButtonLeft, 112)
	sched.fireLast(t)
	m.Press("p1:j1", ButtonLeft, 600)
	assert.Len(t, sched.timers, 1)

	c, ok := m.Release(ButtonLeft, lookup)
	require.True(t, ok)
	assert.Equal(t, "2025-10-15", c.Start.String())
	assert.True(t, m.ContextMenuAllowed())
}

func TestCandidate_ToAssignment(t *testing.T) {
	c := Candidate{
		PersonID:  "p1",
		ProjectID: "j1",
		Start:     calendar.MustParseISO("2025-10-16"),
		Duration:  4,
	}
	a := c.ToAssignment("a1")
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "2025-10-16", a.Start.String())
	assert.Equal(t, "2025-10-21", a.End.String())
	assert.Equal(t, constants.AllocationFull, a.Allocation)

	c.Duration = 0
	assert.Equal(t, c.Start, c.End())
}

func TestRealScheduler(t *testing.T) {
	var s RealScheduler

	fired := make(chan struct{})
	s.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	ticks := make(chan struct{}, 16)
	f := s.RequestFrame(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("frame did not tick")
	}
	f.Stop()
	f.Stop()

	stopped := s.AfterFunc(time.Hour, func() {})
	stopped.Stop()
	stopped.Stop()
}
