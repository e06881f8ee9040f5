package planner

import (
	"github.com/belphemur/capacity-planner/internal/constants"
)

// SubrowKind distinguishes real (person, project) rows from "add" placeholders
type SubrowKind string

const (
	SubrowItem SubrowKind = "item"
	SubrowAdd  SubrowKind = "add"
)

// Subrow is one track inside a person or project group
type Subrow struct {
	Kind      SubrowKind
	Key       string
	Label     string
	PersonID  string
	ProjectID string
}

// PersonProjects lists the distinct project IDs a person is assigned to, in first-seen order
func PersonProjects(assignments []Assignment, personID string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range assignments {
		if a.PersonID == personID && !seen[a.ProjectID] {
			seen[a.ProjectID] = true
			out = append(out, a.ProjectID)
		}
	}
	return out
}

// ProjectPeople lists the distinct person IDs assigned to a project, in first-seen order
func ProjectPeople(assignments []Assignment, projectID string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range assignments {
		if a.ProjectID == projectID && !seen[a.PersonID] {
			seen[a.PersonID] = true
			out = append(out, a.PersonID)
		}
	}
	return out
}

// PersonSubrows builds the rows of a person group: time off first, then one row per
// project, then the "assign a project" placeholder
func PersonSubrows(s State, personID string) []Subrow {
	rows := []Subrow{{
		Kind:      SubrowItem,
		Key:       personID + ":" + constants.TimeOffProjectID,
		Label:     "Time Off",
		PersonID:  personID,
		ProjectID: constants.TimeOffProjectID,
	}}
	for _, pid := range PersonProjects(s.Assignments, personID) {
		if constants.IsTimeOff(pid) {
			continue
		}
		rows = append(rows, Subrow{
			Kind:      SubrowItem,
			Key:       personID + ":" + pid,
			Label:     ProjectName(s, pid),
			PersonID:  personID,
			ProjectID: pid,
		})
	}
	return append(rows, Subrow{
		Kind:     SubrowAdd,
		Key:      personID + ":__add__",
		Label:    "Assign a project",
		PersonID: personID,
	})
}

// ProjectSubrows builds the rows of a project group: one row per team member, then
// the "add person" placeholder
func ProjectSubrows(s State, projectID string) []Subrow {
	var rows []Subrow
	for _, person := range ProjectPeople(s.Assignments, projectID) {
		rows = append(rows, Subrow{
			Kind:      SubrowItem,
			Key:       projectID + ":" + person,
			Label:     PersonName(s, person),
			PersonID:  person,
			ProjectID: projectID,
		})
	}
	return append(rows, Subrow{
		Kind:      SubrowAdd,
		Key:       projectID + ":__add__",
		Label:     "Add person",
		ProjectID: projectID,
	})
}

// FindSubrow looks a row up by key
func FindSubrow(rows []Subrow, key string) (Subrow, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r, true
		}
	}
	return Subrow{}, false
}

// ProjectName resolves a project ID to its display name, falling back to the ID
func ProjectName(s State, id string) string {
	if constants.IsTimeOff(id) {
		return "Time Off"
	}
	for _, p := range s.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// PersonName resolves a person ID to its display name, falling back to the ID
func PersonName(s State, id string) string {
	for _, p := range s.People {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
