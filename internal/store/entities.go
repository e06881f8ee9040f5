package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/signals"
)

// PersonPatch updates the non-nil fields of a person
type PersonPatch struct {
	Name   *string
	Avatar *string
}

// ProjectInput holds the fields of a new project
type ProjectInput struct {
	Name          string
	Color         *string
	Emoji         *string
	EstimatedDays *float64
}

// ProjectPatch updates the non-nil fields of a project
type ProjectPatch struct {
	Name          *string
	Color         *string
	Emoji         *string
	EstimatedDays *float64
}

// People returns every person
func (s *Store) People() []planner.Person {
	return s.Snapshot().People
}

// Projects returns every project
func (s *Store) Projects() []planner.Project {
	return s.Snapshot().Projects
}

// Person looks a person up by ID
func (s *Store) Person(id string) (planner.Person, error) {
	for _, p := range s.People() {
		if p.ID == id {
			return p, nil
		}
	}
	return planner.Person{}, fmt.Errorf("person %s: %w", id, ErrNotFound)
}

// Project looks a project up by ID
func (s *Store) Project(id string) (planner.Project, error) {
	for _, p := range s.Projects() {
		if p.ID == id {
			return p, nil
		}
	}
	return planner.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

func personNameTaken(st *planner.State, name, exceptID string) bool {
	for _, p := range st.People {
		if p.ID != exceptID && constants.SameName(p.Name, name) {
			return true
		}
	}
	return false
}

func projectNameTaken(st *planner.State, name, exceptID string) bool {
	for _, p := range st.Projects {
		if p.ID != exceptID && constants.SameName(p.Name, name) {
			return true
		}
	}
	return false
}

// AddPerson creates a person. Names are unique ignoring case.
func (s *Store) AddPerson(ctx context.Context, name string, avatar *string) (planner.Person, error) {
	if err := constants.ValidateName(name); err != nil {
		return planner.Person{}, fmt.Errorf("invalid person name: %w", err)
	}
	p := planner.Person{ID: s.newID(), Name: strings.TrimSpace(name), Avatar: trimmed(avatar)}

	err := s.mutate(ctx, func(st *planner.State) error {
		if personNameTaken(st, p.Name, "") {
			return fmt.Errorf("person %q: %w", p.Name, ErrDuplicateName)
		}
		st.People = append(st.People, p)
		return nil
	})
	if err != nil {
		return planner.Person{}, err
	}

	s.logger.Debug().Str("person_id", p.ID).Str("name", p.Name).Msg("Person added")
	signals.EmitEntityChanged(ctx, signals.ChangeCreated, signals.EntityPerson, p.ID)
	return p, nil
}

// UpdatePerson applies a patch to a person
func (s *Store) UpdatePerson(ctx context.Context, id string, patch PersonPatch) (planner.Person, error) {
	if patch.Name != nil {
		if err := constants.ValidateName(*patch.Name); err != nil {
			return planner.Person{}, fmt.Errorf("invalid person name: %w", err)
		}
	}

	var updated planner.Person
	err := s.mutate(ctx, func(st *planner.State) error {
		for i := range st.People {
			if st.People[i].ID != id {
				continue
			}
			if patch.Name != nil {
				name := strings.TrimSpace(*patch.Name)
				if personNameTaken(st, name, id) {
					return fmt.Errorf("person %q: %w", name, ErrDuplicateName)
				}
				st.People[i].Name = name
			}
			if patch.Avatar != nil {
				st.People[i].Avatar = trimmed(patch.Avatar)
			}
			updated = st.People[i]
			return nil
		}
		return fmt.Errorf("person %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return planner.Person{}, err
	}

	signals.EmitEntityChanged(ctx, signals.ChangeUpdated, signals.EntityPerson, id)
	return updated, nil
}

// DeletePerson removes a person and every assignment booked on them
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	var removed []planner.Assignment
	err := s.mutate(ctx, func(st *planner.State) error {
		idx := -1
		for i, p := range st.People {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("person %s: %w", id, ErrNotFound)
		}
		st.People = append(st.People[:idx], st.People[idx+1:]...)
		st.Assignments, removed = partition(st.Assignments, func(a planner.Assignment) bool {
			return a.PersonID == id
		})
		if st.View.SelectedID != nil && *st.View.SelectedID == id {
			st.View.SelectedID = nil
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("person_id", id).Int("assignments_removed", len(removed)).Msg("Person deleted")
	for _, a := range removed {
		signals.EmitAssignmentChanged(ctx, signals.ChangeDeleted, a)
	}
	signals.EmitEntityChanged(ctx, signals.ChangeDeleted, signals.EntityPerson, id)
	return nil
}

// AddProject creates a project. Names are unique ignoring case.
func (s *Store) AddProject(ctx context.Context, in ProjectInput) (planner.Project, error) {
	if err := constants.ValidateName(in.Name); err != nil {
		return planner.Project{}, fmt.Errorf("invalid project name: %w", err)
	}
	if err := validateEstimate(in.EstimatedDays); err != nil {
		return planner.Project{}, err
	}
	p := planner.Project{
		ID:            s.newID(),
		Name:          strings.TrimSpace(in.Name),
		Color:         trimmed(in.Color),
		Emoji:         trimmed(in.Emoji),
		EstimatedDays: in.EstimatedDays,
	}

	err := s.mutate(ctx, func(st *planner.State) error {
		if projectNameTaken(st, p.Name, "") {
			return fmt.Errorf("project %q: %w", p.Name, ErrDuplicateName)
		}
		st.Projects = append(st.Projects, p)
		return nil
	})
	if err != nil {
		return planner.Project{}, err
	}

	s.logger.Debug().Str("project_id", p.ID).Str("name", p.Name).Msg("Project added")
	signals.EmitEntityChanged(ctx, signals.ChangeCreated, signals.EntityProject, p.ID)
	return p, nil
}

// UpdateProject applies a patch to a project
func (s *Store) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (planner.Project, error) {
	if patch.Name != nil {
		if err := constants.ValidateName(*patch.Name); err != nil {
			return planner.Project{}, fmt.Errorf("invalid project name: %w", err)
		}
	}
	if err := validateEstimate(patch.EstimatedDays); err != nil {
		return planner.Project{}, err
	}

	var updated planner.Project
	err := s.mutate(ctx, func(st *planner.State) error {
		for i := range st.Projects {
			p := &st.Projects[i]
			if p.ID != id {
				continue
			}
			if patch.Name != nil {
				name := strings.TrimSpace(*patch.Name)
				if projectNameTaken(st, name, id) {
					return fmt.Errorf("project %q: %w", name, ErrDuplicateName)
				}
				p.Name = name
			}
			if patch.Color != nil {
				p.Color = trimmed(patch.Color)
			}
			if patch.Emoji != nil {
				p.Emoji = trimmed(patch.Emoji)
			}
			if patch.EstimatedDays != nil {
				if *patch.EstimatedDays == 0 {
					p.EstimatedDays = nil
				} else {
					v := *patch.EstimatedDays
					p.EstimatedDays = &v
				}
			}
			updated = *p
			return nil
		}
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return planner.Project{}, err
	}

	signals.EmitEntityChanged(ctx, signals.ChangeUpdated, signals.EntityProject, id)
	return updated, nil
}

// DeleteProject removes a project and every assignment booked on it
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	var removed []planner.Assignment
	err := s.mutate(ctx, func(st *planner.State) error {
		idx := -1
		for i, p := range st.Projects {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		st.Projects = append(st.Projects[:idx], st.Projects[idx+1:]...)
		st.Assignments, removed = partition(st.Assignments, func(a planner.Assignment) bool {
			return a.ProjectID == id
		})
		if st.View.SelectedID != nil && *st.View.SelectedID == id {
			st.View.SelectedID = nil
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("project_id", id).Int("assignments_removed", len(removed)).Msg("Project deleted")
	for _, a := range removed {
		signals.EmitAssignmentChanged(ctx, signals.ChangeDeleted, a)
	}
	signals.EmitEntityChanged(ctx, signals.ChangeDeleted, signals.EntityProject, id)
	return nil
}

func validateEstimate(v *float64) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("estimated days cannot be negative: %v", *v)
	}
	return nil
}

// partition splits list into the items to keep and the items matching drop
func partition(list []planner.Assignment, drop func(planner.Assignment) bool) (kept, removed []planner.Assignment) {
	kept = make([]planner.Assignment, 0, len(list))
	for _, a := range list {
		if drop(a) {
			removed = append(removed, a)
		} else {
			kept = append(kept, a)
		}
	}
	return kept, removed
}
