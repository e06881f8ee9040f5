package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/signals"
)

// AssignmentInput holds the fields of a new assignment. A zero allocation
// defaults to full time.
type AssignmentInput struct {
	PersonID   string
	ProjectID  string
	Start      calendar.Date
	End        calendar.Date
	Allocation constants.Allocation
	Subtitle   *string
}

// AssignmentPatch updates the non-nil fields of an assignment
type AssignmentPatch struct {
	PersonID   *string
	ProjectID  *string
	Start      *calendar.Date
	End        *calendar.Date
	Allocation *constants.Allocation
	Subtitle   *string
}

// Assignments returns every assignment
func (s *Store) Assignments() []planner.Assignment {
	return s.Snapshot().Assignments
}

// Assignment looks an assignment up by ID
func (s *Store) Assignment(id string) (planner.Assignment, error) {
	for _, a := range s.Assignments() {
		if a.ID == id {
			return a, nil
		}
	}
	return planner.Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
}

func checkAllocation(a constants.Allocation) error {
	if !a.IsValid() {
		return fmt.Errorf("%v: %w", float64(a), ErrInvalidAllocation)
	}
	return nil
}

func checkRefs(st *planner.State, personID, projectID string) error {
	if !hasPerson(st, personID) {
		return fmt.Errorf("person %s: %w", personID, ErrNotFound)
	}
	if !hasProject(st, projectID) {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	return nil
}

// CreateAssignment books a person on a project. Inverted ranges are swapped so
// start <= end.
func (s *Store) CreateAssignment(ctx context.Context, in AssignmentInput) (planner.Assignment, error) {
	if in.Start.IsZero() || in.End.IsZero() {
		return planner.Assignment{}, fmt.Errorf("assignment dates are required: %w", calendar.ErrInvalidDate)
	}
	alloc := in.Allocation
	if alloc == 0 {
		alloc = constants.AllocationFull
	}
	if err := checkAllocation(alloc); err != nil {
		return planner.Assignment{}, err
	}

	start, end := normalizeRange(in.Start, in.End)
	a := planner.Assignment{
		ID:         s.newID(),
		PersonID:   in.PersonID,
		ProjectID:  in.ProjectID,
		Start:      start,
		End:        end,
		Allocation: alloc,
		Subtitle:   trimmed(in.Subtitle),
	}

	err := s.mutate(ctx, func(st *planner.State) error {
		if err := checkRefs(st, a.PersonID, a.ProjectID); err != nil {
			return err
		}
		st.Assignments = append(st.Assignments, a)
		return nil
	})
	if err != nil {
		return planner.Assignment{}, err
	}

	s.logger.Debug().
		Str("assignment_id", a.ID).
		Str("person_id", a.PersonID).
		Str("project_id", a.ProjectID).
		Str("start", a.Start.String()).
		Str("end", a.End.String()).
		Str("allocation", a.Allocation.String()).
		Msg("Assignment created")
	signals.EmitAssignmentChanged(ctx, signals.ChangeCreated, a)
	return a, nil
}

// UpdateAssignment applies a patch; the range is re-normalised afterwards
func (s *Store) UpdateAssignment(ctx context.Context, id string, patch AssignmentPatch) (planner.Assignment, error) {
	if patch.Allocation != nil {
		if err := checkAllocation(*patch.Allocation); err != nil {
			return planner.Assignment{}, err
		}
	}

	var updated planner.Assignment
	err := s.mutate(ctx, func(st *planner.State) error {
		for i := range st.Assignments {
			a := &st.Assignments[i]
			if a.ID != id {
				continue
			}
			if patch.PersonID != nil {
				a.PersonID = *patch.PersonID
			}
			if patch.ProjectID != nil {
				a.ProjectID = *patch.ProjectID
			}
			if patch.Start != nil {
				a.Start = *patch.Start
			}
			if patch.End != nil {
				a.End = *patch.End
			}
			if patch.Allocation != nil {
				a.Allocation = *patch.Allocation
			}
			if patch.Subtitle != nil {
				a.Subtitle = trimmed(patch.Subtitle)
			}
			if err := checkRefs(st, a.PersonID, a.ProjectID); err != nil {
				return err
			}
			a.Start, a.End = normalizeRange(a.Start, a.End)
			updated = *a
			return nil
		}
		return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return planner.Assignment{}, err
	}

	signals.EmitAssignmentChanged(ctx, signals.ChangeUpdated, updated)
	return updated, nil
}

// DeleteAssignment removes an assignment
func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	var removed []planner.Assignment
	err := s.mutate(ctx, func(st *planner.State) error {
		st.Assignments, removed = partition(st.Assignments, func(a planner.Assignment) bool {
			return a.ID == id
		})
		if len(removed) == 0 {
			return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug().Str("assignment_id", id).Msg("Assignment deleted")
	signals.EmitAssignmentChanged(ctx, signals.ChangeDeleted, removed[0])
	return nil
}

// FindPersonByName resolves a person by case-insensitive name, or by ID
func (s *Store) FindPersonByName(name string) (planner.Person, error) {
	for _, p := range s.People() {
		if p.ID == name || constants.SameName(p.Name, name) {
			return p, nil
		}
	}
	return planner.Person{}, fmt.Errorf("person %q: %w", name, ErrNotFound)
}

// FindProjectByName resolves a project by case-insensitive name, or by ID.
// The time-off pseudo project matches its ID and "time off".
func (s *Store) FindProjectByName(name string) (planner.Project, error) {
	if constants.IsTimeOff(strings.ToUpper(strings.TrimSpace(name))) || constants.SameName(name, "time off") {
		return planner.Project{ID: constants.TimeOffProjectID, Name: "Time Off"}, nil
	}
	for _, p := range s.Projects() {
		if p.ID == name || constants.SameName(p.Name, name) {
			return p, nil
		}
	}
	return planner.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
}
