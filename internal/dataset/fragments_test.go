package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

func d(s string) calendar.Date { return calendar.MustParseISO(s) }

func fragmentAssignments() []planner.Assignment {
	return []planner.Assignment{
		{ID: "short", PersonID: "p1", ProjectID: "j1", Start: d("2025-01-06"), End: d("2025-01-10"), Allocation: constants.AllocationFull},
		{ID: "long", PersonID: "p1", ProjectID: "j1", Start: d("2025-01-20"), End: d("2025-03-14"), Allocation: constants.AllocationHalf},
		{ID: "june", PersonID: "p2", ProjectID: "j1", Start: d("2025-06-02"), End: d("2025-06-03"), Allocation: constants.AllocationFull},
	}
}

func ids(as []planner.Assignment) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestFragmentStart(t *testing.T) {
	f := NewFragments(nil, FragmentOptions{})
	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-01-06", want: "2024-12-23"},
		{in: "2024-12-23", want: "2024-12-23"},
		{in: "2025-01-19", want: "2024-12-23"},
		{in: "2025-01-20", want: "2025-01-20"},
		{in: "1970-01-05", want: "1970-01-05"},
		{in: "1970-01-04", want: "1969-12-08"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := f.FragmentStart(d(tt.in))
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, "Monday", got.Weekday().String())
		})
	}
}

func TestLoadRange(t *testing.T) {
	f := NewFragments(fragmentAssignments(), FragmentOptions{})

	added := f.LoadRange(d("2025-01-10"), d("2025-01-06"))
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, f.LoadRange(d("2025-01-06"), d("2025-01-10")))

	loaded := f.Loaded()
	require.Len(t, loaded, 2)
	assert.Equal(t, "fragment-2024-12-23", loaded[0].ID)
	assert.Equal(t, "2025-01-19", loaded[0].End.String())
	assert.Equal(t, []string{"short"}, ids(loaded[0].Assignments))
	assert.Equal(t, []string{"long"}, ids(loaded[1].Assignments))
}

func TestAssignmentsForRange(t *testing.T) {
	f := NewFragments(fragmentAssignments(), FragmentOptions{})
	f.LoadRange(d("2025-01-01"), d("2025-03-31"))

	got := f.AssignmentsForRange(d("2025-01-01"), d("2025-03-31"))
	assert.Equal(t, []string{"short", "long"}, ids(got))

	assert.Empty(t, f.AssignmentsForRange(d("2025-06-01"), d("2025-06-30")))

	f.LoadRange(d("2025-06-01"), d("2025-06-30"))
	assert.Equal(t, []string{"june"}, ids(f.AssignmentsForRange(d("2025-06-01"), d("2025-06-30"))))
}

func TestPrimaryAssignmentsForRange(t *testing.T) {
	f := NewFragments(fragmentAssignments(), FragmentOptions{})
	f.LoadRange(d("2025-01-01"), d("2025-02-28"))

	assert.Equal(t, []string{"short", "long"}, ids(f.PrimaryAssignmentsForRange(d("2025-01-01"), d("2025-01-31"))))

	// the long booking started in January, so February only sees it in the broad query
	assert.Empty(t, f.PrimaryAssignmentsForRange(d("2025-02-01"), d("2025-02-28")))
	assert.Equal(t, []string{"long"}, ids(f.AssignmentsForRange(d("2025-02-01"), d("2025-02-28"))))
}

func TestFragmentsReset(t *testing.T) {
	f := NewFragments(fragmentAssignments(), FragmentOptions{Weeks: 2, BufferWeeks: -1})
	f.LoadRange(d("2025-01-06"), d("2025-01-10"))
	require.Len(t, f.Loaded(), 1)

	f.Reset(fragmentAssignments()[2:])
	assert.Empty(t, f.Loaded())

	f.LoadRange(d("2025-06-02"), d("2025-06-02"))
	assert.Equal(t, []string{"june"}, ids(f.AssignmentsForRange(d("2025-06-02"), d("2025-06-02"))))
}
