package dataset

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// Normalize trims names, defaults missing allocations to full time and swaps
// inverted assignment ranges
func Normalize(s planner.State) planner.State {
	out := s.Clone()
	for i := range out.People {
		out.People[i].Name = strings.TrimSpace(out.People[i].Name)
	}
	for i := range out.Projects {
		out.Projects[i].Name = strings.TrimSpace(out.Projects[i].Name)
	}
	for i := range out.Assignments {
		a := &out.Assignments[i]
		if a.Allocation == 0 {
			a.Allocation = constants.AllocationFull
		}
		if !a.Start.IsZero() && !a.End.IsZero() {
			r := calendar.ClampDateRange(a.Start, a.End)
			a.Start, a.End = r.Start, r.End
		}
	}
	return out
}

// Validate reports every problem of a state at once
func Validate(s planner.State) error {
	var result *multierror.Error

	people := make(map[string]bool, len(s.People))
	var names []string
	for i, p := range s.People {
		if p.ID == "" {
			result = multierror.Append(result, fmt.Errorf("people[%d]: missing id", i))
		} else if people[p.ID] {
			result = multierror.Append(result, fmt.Errorf("people[%d]: duplicate id %q", i, p.ID))
		}
		people[p.ID] = true
		if err := constants.ValidateName(p.Name); err != nil {
			result = multierror.Append(result, fmt.Errorf("people[%d]: %w", i, err))
		} else if containsName(names, p.Name) {
			result = multierror.Append(result, fmt.Errorf("people[%d]: duplicate name %q", i, p.Name))
		}
		names = append(names, p.Name)
	}

	projects := make(map[string]bool, len(s.Projects))
	names = names[:0]
	for i, p := range s.Projects {
		switch {
		case p.ID == "":
			result = multierror.Append(result, fmt.Errorf("projects[%d]: missing id", i))
		case constants.IsTimeOff(p.ID):
			result = multierror.Append(result, fmt.Errorf("projects[%d]: id %q is reserved", i, p.ID))
		case projects[p.ID]:
			result = multierror.Append(result, fmt.Errorf("projects[%d]: duplicate id %q", i, p.ID))
		}
		projects[p.ID] = true
		if err := constants.ValidateName(p.Name); err != nil {
			result = multierror.Append(result, fmt.Errorf("projects[%d]: %w", i, err))
		} else if containsName(names, p.Name) {
			result = multierror.Append(result, fmt.Errorf("projects[%d]: duplicate name %q", i, p.Name))
		}
		names = append(names, p.Name)
		if p.EstimatedDays != nil && *p.EstimatedDays < 0 {
			result = multierror.Append(result, fmt.Errorf("projects[%d]: negative estimate %v", i, *p.EstimatedDays))
		}
	}

	ids := make(map[string]bool, len(s.Assignments))
	for i, a := range s.Assignments {
		if a.ID == "" {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: missing id", i))
		} else if ids[a.ID] {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: duplicate id %q", i, a.ID))
		}
		ids[a.ID] = true
		if !people[a.PersonID] {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: unknown person %q", i, a.PersonID))
		}
		if !projects[a.ProjectID] && !constants.IsTimeOff(a.ProjectID) {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: unknown project %q", i, a.ProjectID))
		}
		if a.Start.IsZero() || a.End.IsZero() {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: %w", i, calendar.ErrInvalidDate))
		}
		if !a.Allocation.IsValid() {
			result = multierror.Append(result, fmt.Errorf("assignments[%d]: invalid allocation %v", i, float64(a.Allocation)))
		}
	}

	if s.View.Mode != "" && !s.View.Mode.IsValid() {
		result = multierror.Append(result, fmt.Errorf("view: invalid mode %q", s.View.Mode))
	}
	if s.View.Days < 0 {
		result = multierror.Append(result, fmt.Errorf("view: negative days %d", s.View.Days))
	}

	return result.ErrorOrNil()
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if constants.SameName(n, name) {
			return true
		}
	}
	return false
}
