// Package constants provides shared constants for the capacity-planner application
package constants

import "fmt"

// ViewMode represents how timeline rows are grouped
type ViewMode string

const (
	// ViewModePerson groups rows by person, one subrow per project
	ViewModePerson ViewMode = "person"
	// ViewModeProject groups rows by project, one subrow per team member
	ViewModeProject ViewMode = "project"
)

// IsValid checks if the view mode value is valid
func (m ViewMode) IsValid() bool {
	return m == ViewModePerson || m == ViewModeProject
}

// String returns the string representation of the view mode
func (m ViewMode) String() string {
	return string(m)
}

// ParseViewMode parses a string into a ViewMode type
// Returns an error if the value is invalid
func ParseViewMode(s string) (ViewMode, error) {
	mode := ViewMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid view mode: %s (must be 'person' or 'project')", s)
	}
	return mode, nil
}

// GetAllViewModes returns all valid view modes
// This provides a consistent list for CLI completion and validation
func GetAllViewModes() []ViewMode {
	return []ViewMode{ViewModePerson, ViewModeProject}
}
