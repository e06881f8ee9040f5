// Package constants provides shared constants for the capacity-planner application
package constants

// AppName is the display name used in logs and exported documents
const AppName = "Capacity Planner"

// TimeOffProjectID is the reserved project identifier marking unavailability rather than project work
const TimeOffProjectID = "TIMEOFF"

// IsTimeOff reports whether projectID is the reserved time-off project
func IsTimeOff(projectID string) bool {
	return projectID == TimeOffProjectID
}
