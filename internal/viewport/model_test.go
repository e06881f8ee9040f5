package viewport

import (
	"testing"
	"time"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = calendar.MustParseISO("2025-10-27")

func newInitialized(t *testing.T, client float64) (*Model, *MemorySurface) {
	t.Helper()
	m, s := NewHeadless(Options{}, client)
	m.Init(monday)
	return m, s
}

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		today string
	}{
		{"monday", "2025-10-27"},
		{"wednesday", "2025-10-29"},
		{"sunday", "2025-11-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s := NewHeadless(Options{}, 800)
			s.Left = 300
			m.Init(calendar.MustParseISO(tt.today))

			v := m.View()
			assert.Equal(t, "2025-10-13", v.Start.String())
			assert.GreaterOrEqual(t, v.Days, 35)
			assert.Len(t, m.DaySequence(), 35)
			assert.Equal(t, "2025-11-28", m.EndDate().String())
			assert.Zero(t, s.Left)
		})
	}
}

func TestOnScroll_PrependsNearLeftEdge(t *testing.T) {
	m, s := newInitialized(t, 800)

	ext := m.OnScroll()
	assert.Equal(t, ExtensionPrepended, ext)
	assert.Equal(t, "2025-10-06", m.View().Start.String())
	assert.Equal(t, 54, m.View().Days)
	assert.Len(t, m.DaySequence(), 40)
	// Content that was at x=0 is now five columns to the right
	assert.InDelta(t, 5*DefaultZoom, s.Left, 1e-9)
	assert.False(t, m.Extending())
}

func TestOnScroll_MiddleDoesNothing(t *testing.T) {
	m, s := newInitialized(t, 800)
	s.Left = 600
	before := m.View()

	assert.Equal(t, ExtensionNone, m.OnScroll())
	assert.Equal(t, before, m.View())
}

func TestOnScroll_AppendsNearRightEdge(t *testing.T) {
	m, s := newInitialized(t, 800)
	s.Left = m.ContentWidth() - 800

	assert.Equal(t, ExtensionAppended, m.OnScroll())
	assert.Equal(t, "2025-10-13", m.View().Start.String())
	assert.Len(t, m.DaySequence(), 40)
	assert.Equal(t, "2025-12-05", m.EndDate().String())
	assert.InDelta(t, 1960-800, s.Left, 1e-9)
}

type reentrantSurface struct {
	client float64
	left   float64
	model  *Model
	nested []Extension
}

func (s *reentrantSurface) ClientWidth() float64 { return s.client }
func (s *reentrantSurface) ScrollWidth() float64 { return s.model.ContentWidth() }
func (s *reentrantSurface) ScrollLeft() float64  { return s.left }
func (s *reentrantSurface) SetScrollLeft(x float64) {
	s.left = x
	if s.model != nil {
		// A real surface fires a scroll event synchronously
		s.nested = append(s.nested, s.model.OnScroll())
	}
}

func TestOnScroll_ReentrantTriggerIsDropped(t *testing.T) {
	s := &reentrantSurface{client: 2000}
	m := New(Options{}, s)
	m.Init(monday)
	s.model = m

	assert.Equal(t, ExtensionPrepended, m.OnScroll())
	require.Len(t, s.nested, 1)
	assert.Equal(t, ExtensionSuppressed, s.nested[0])
	assert.Len(t, m.DaySequence(), 40)
	assert.False(t, m.Extending())
}

func TestOnScroll_Cooldown(t *testing.T) {
	now := time.Date(2025, 10, 27, 9, 0, 0, 0, time.UTC)
	m, s := NewHeadless(Options{Cooldown: time.Second, Now: func() time.Time { return now }}, 800)
	m.Init(monday)

	assert.Equal(t, ExtensionPrepended, m.OnScroll())
	s.Left = 0
	assert.Equal(t, ExtensionSuppressed, m.OnScroll())

	now = now.Add(2 * time.Second)
	assert.Equal(t, ExtensionPrepended, m.OnScroll())
	assert.Len(t, m.DaySequence(), 45)
}

func TestPrependAppend_JumpMode(t *testing.T) {
	m, s := newInitialized(t, 800)
	s.Left = 100

	m.Prepend(5, ModeJump)
	assert.InDelta(t, 100+5*DefaultZoom, s.Left, 1e-9)

	m.Append(5, ModeJump)
	assert.InDelta(t, 100+10*DefaultZoom, s.Left, 1e-9)
	assert.Len(t, m.DaySequence(), 45)
}

func TestPrepend_FromWeekendStart(t *testing.T) {
	m, _ := NewHeadless(Options{}, 800)
	m.SetStart(calendar.MustParseISO("2025-10-18"))
	m.SetDays(10)
	before := len(m.DaySequence())

	m.Prepend(5, ModeAnchor)
	assert.Equal(t, "2025-10-13", m.View().Start.String())
	assert.Equal(t, before+5, len(m.DaySequence()))
}

func TestPrependAppend_IgnoreNonPositive(t *testing.T) {
	m, _ := newInitialized(t, 800)
	before := m.View()
	m.Prepend(0, ModeAnchor)
	m.Append(-3, ModeJump)
	assert.Equal(t, before, m.View())
}

func TestSetDays_NeverBelowMinimum(t *testing.T) {
	m, _ := newInitialized(t, 800)
	m.SetDays(3)
	assert.Equal(t, MinDays, m.View().Days)
	m.SetDays(120)
	assert.Equal(t, 120, m.View().Days)
}

func TestSetZoom(t *testing.T) {
	m, s := newInitialized(t, 800)

	m.SetZoom(10)
	assert.Equal(t, MinZoom, m.View().PxPerDay)
	m.SetZoom(100)
	assert.Equal(t, MaxZoom, m.View().PxPerDay)

	m.SetZoom(56)
	s.Left = 560
	m.SetZoom(28)
	assert.InDelta(t, 80, s.Left, 1e-9)
}

func TestJumpTo(t *testing.T) {
	m, s := newInitialized(t, 800)

	m.JumpTo(calendar.MustParseISO("2025-10-20"))
	assert.Equal(t, "2025-10-13", m.View().Start.String())
	assert.InDelta(t, 5*DefaultZoom, s.Left, 1e-9)

	m.JumpTo(calendar.MustParseISO("2026-03-04"))
	assert.Equal(t, "2026-02-16", m.View().Start.String())
	assert.InDelta(t, 12*DefaultZoom, s.Left, 1e-9)
}

func TestRestoreAndApply(t *testing.T) {
	m, _ := NewHeadless(Options{}, 800)
	m.Restore(planner.ViewState{
		Mode:     constants.ViewModeProject,
		Start:    calendar.MustParseISO("2025-01-06"),
		Days:     3,
		PxPerDay: 100,
	})

	v := m.View()
	assert.Equal(t, "2025-01-06", v.Start.String())
	assert.Equal(t, MinDays, v.Days)
	assert.Equal(t, MaxZoom, v.PxPerDay)

	state := m.Apply(planner.ViewState{Mode: constants.ViewModeProject})
	assert.Equal(t, constants.ViewModeProject, state.Mode)
	assert.Equal(t, v.Start, state.Start)
	assert.Equal(t, MinDays, state.Days)
}

func TestOnChange(t *testing.T) {
	m, _ := NewHeadless(Options{}, 800)
	var seen []View
	m.OnChange(func(v View) { seen = append(seen, v) })

	m.Init(monday)
	m.Prepend(5, ModeAnchor)
	m.SetDays(100)
	require.Len(t, seen, 3)
	assert.Equal(t, 100, seen[2].Days)
}

func TestFitToAssignments(t *testing.T) {
	m, _ := NewHeadless(Options{}, 800)

	m.FitToAssignments(monday, nil)
	assert.Equal(t, "2025-10-06", m.View().Start.String())
	assert.Equal(t, 82, m.View().Days)

	assignments := []planner.Assignment{{
		ID:         "a1",
		PersonID:   "p1",
		ProjectID:  "j1",
		Start:      calendar.MustParseISO("2025-06-01"),
		End:        calendar.MustParseISO("2026-03-01"),
		Allocation: constants.AllocationFull,
	}}
	assert.True(t, m.NeedsExpansion(assignments))

	m.FitToAssignments(monday, assignments)
	assert.Equal(t, "2025-05-12", m.View().Start.String())
	assert.Equal(t, "2026-03-15", m.EndDate().String())
	assert.False(t, m.NeedsExpansion(assignments))
	assert.False(t, m.NeedsExpansion(nil))
}
