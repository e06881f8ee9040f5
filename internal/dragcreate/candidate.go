package dragcreate

import (
	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Candidate is the assignment a committed drag proposes
type Candidate struct {
	PersonID   string
	ProjectID  string
	Start      calendar.Date
	Duration   int
	Allocation constants.Allocation
}

// End is the last business day covered by the candidate
func (c Candidate) End() calendar.Date {
	return calendar.AddBusinessDays(c.Start, max(1, c.Duration)-1)
}

// ToAssignment materialises the candidate under the given ID
func (c Candidate) ToAssignment(id string) planner.Assignment {
	alloc := c.Allocation
	if !alloc.IsValid() {
		alloc = constants.AllocationFull
	}
	return planner.Assignment{
		ID:         id,
		PersonID:   c.PersonID,
		ProjectID:  c.ProjectID,
		Start:      c.Start,
		End:        c.End(),
		Allocation: alloc,
	}
}
