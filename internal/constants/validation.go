// Package constants provides shared constants for the capacity-planner application
package constants

import (
	"fmt"
	"strings"
)

// MaxNameLength bounds person and project names
const MaxNameLength = 120

// ValidateName checks that a person or project name is usable
// Used by the entity store and the dataset importer
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(trimmed) > MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", MaxNameLength)
	}
	return nil
}

// SameName compares two names the way duplicate detection does: trimmed and case-insensitive
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
