package planner

import (
	"testing"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() State {
	d := calendar.MustParseISO
	return State{
		People:   []Person{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}},
		Projects: []Project{{ID: "j1", Name: "Aurora"}, {ID: "j2", Name: "Nebula"}},
		Assignments: []Assignment{
			{ID: "a1", PersonID: "p1", ProjectID: "j1", Start: d("2025-01-06"), End: d("2025-01-10"), Allocation: constants.AllocationFull},
			{ID: "a2", PersonID: "p1", ProjectID: "j2", Start: d("2025-01-13"), End: d("2025-01-14"), Allocation: constants.AllocationHalf},
			{ID: "a3", PersonID: "p2", ProjectID: "j1", Start: d("2025-01-08"), End: d("2025-01-20"), Allocation: constants.AllocationHalf},
			{ID: "a4", PersonID: "p1", ProjectID: constants.TimeOffProjectID, Start: d("2025-01-15"), End: d("2025-01-15"), Allocation: constants.AllocationFull},
			{ID: "a5", PersonID: "p1", ProjectID: "j1", Start: d("2025-01-20"), End: d("2025-01-21"), Allocation: constants.AllocationFull},
		},
	}
}

func TestPersonSubrows(t *testing.T) {
	rows := PersonSubrows(testState(), "p1")
	require.Len(t, rows, 4)

	assert.Equal(t, "p1:TIMEOFF", rows[0].Key)
	assert.Equal(t, "Time Off", rows[0].Label)
	assert.Equal(t, "p1:j1", rows[1].Key)
	assert.Equal(t, "Aurora", rows[1].Label)
	assert.Equal(t, "p1:j2", rows[2].Key)
	assert.Equal(t, SubrowAdd, rows[3].Kind)
	assert.Equal(t, "p1:__add__", rows[3].Key)
}

func TestProjectSubrows(t *testing.T) {
	rows := ProjectSubrows(testState(), "j1")
	require.Len(t, rows, 3)
	assert.Equal(t, "Alice", rows[0].Label)
	assert.Equal(t, "Bob", rows[1].Label)
	assert.Equal(t, SubrowAdd, rows[2].Kind)

	row, ok := FindSubrow(rows, "j1:p2")
	require.True(t, ok)
	assert.Equal(t, "p2", row.PersonID)

	_, ok = FindSubrow(rows, "j1:p9")
	assert.False(t, ok)
}

func TestNamesFallBackToID(t *testing.T) {
	s := testState()
	assert.Equal(t, "Nebula", ProjectName(s, "j2"))
	assert.Equal(t, "j9", ProjectName(s, "j9"))
	assert.Equal(t, "p9", PersonName(s, "p9"))
}

func TestSpan(t *testing.T) {
	r, ok := Span(testState().Assignments)
	require.True(t, ok)
	assert.Equal(t, "2025-01-06", r.Start.String())
	assert.Equal(t, "2025-01-21", r.End.String())

	_, ok = Span(nil)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	s := testState()
	c := s.Clone()
	c.Assignments[0].PersonID = "changed"
	assert.Equal(t, "p1", s.Assignments[0].PersonID)

	empty := State{}.Clone()
	assert.NotNil(t, empty.People)
	assert.NotNil(t, empty.Assignments)
}
