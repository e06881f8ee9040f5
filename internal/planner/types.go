// Package planner holds the entities the timeline core reads: people, projects,
// assignments and the persisted view state.
package planner

import (
	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
)

// Person is someone whose time is planned
type Person struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Avatar *string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Project is a unit of work people are assigned to
type Project struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Color         *string  `json:"color,omitempty" yaml:"color,omitempty"`
	Emoji         *string  `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	EstimatedDays *float64 `json:"estimatedDays,omitempty" yaml:"estimatedDays,omitempty"`
}

// Assignment books a person on a project for an inclusive date range
type Assignment struct {
	ID         string               `json:"id" yaml:"id"`
	PersonID   string               `json:"person_id" yaml:"person_id"`
	ProjectID  string               `json:"project_id" yaml:"project_id"`
	Start      calendar.Date        `json:"start" yaml:"start"`
	End        calendar.Date        `json:"end" yaml:"end"`
	Allocation constants.Allocation `json:"allocation" yaml:"allocation"`
	Subtitle   *string              `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
}

// Range returns the assignment's inclusive date range
func (a Assignment) Range() calendar.Range {
	return calendar.NewRange(a.Start, a.End)
}

// IsTimeOff reports whether the assignment books unavailability
func (a Assignment) IsTimeOff() bool {
	return constants.IsTimeOff(a.ProjectID)
}

// ViewState is the persisted part of the timeline viewport
type ViewState struct {
	Mode       constants.ViewMode `json:"mode" yaml:"mode"`
	Start      calendar.Date      `json:"start" yaml:"start"`
	Days       int                `json:"days" yaml:"days"`
	PxPerDay   float64            `json:"px_per_day" yaml:"px_per_day"`
	SelectedID *string            `json:"selected_id" yaml:"selected_id"`
}

// State is a complete planner document
type State struct {
	People      []Person     `json:"people" yaml:"people"`
	Projects    []Project    `json:"projects" yaml:"projects"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	View        ViewState    `json:"view" yaml:"view"`
}

// Clone returns a deep enough copy that callers can mutate slices freely
func (s State) Clone() State {
	out := State{
		People:      append([]Person(nil), s.People...),
		Projects:    append([]Project(nil), s.Projects...),
		Assignments: append([]Assignment(nil), s.Assignments...),
		View:        s.View,
	}
	if out.People == nil {
		out.People = []Person{}
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Assignments == nil {
		out.Assignments = []Assignment{}
	}
	return out
}

// Span returns the earliest start and latest end over all assignments.
// The boolean is false when there are no assignments.
func Span(assignments []Assignment) (calendar.Range, bool) {
	if len(assignments) == 0 {
		return calendar.Range{}, false
	}
	r := assignments[0].Range()
	for _, a := range assignments[1:] {
		r.Start = calendar.MinDate(r.Start, a.Start)
		r.End = calendar.MaxDate(r.End, a.End)
	}
	return r, true
}
