package capacity

import (
	"math"
	"strconv"

	"github.com/belphemur/capacity-planner/internal/planner"
)

// Estimation thresholds, in man-days remaining
const (
	WarningDaysThreshold = 5
	OverdueThreshold     = 0
)

// Badge is the severity attached to a project's estimate
type Badge string

const (
	BadgeNeutral Badge = "neutral"
	BadgeWarning Badge = "warning"
	BadgeError   Badge = "error"
)

// EstimateStatus compares booked effort against a project's estimate
type EstimateStatus struct {
	Booked    float64
	Estimated *float64
	Remaining float64
	Badge     Badge
	Text      string
}

// ProjectTotalDays sums business days times allocation over every booking of the
// project, rounded to one decimal place. No window clamping is applied.
func ProjectTotalDays(assignments []planner.Assignment, projectID string) float64 {
	total := 0.0
	for _, a := range ProjectAssignments(assignments, projectID) {
		total += ManDays(a.Start, a.End, a.Allocation)
	}
	return math.Round(total*10) / 10
}

// Estimate builds the badge status of a project. Without an estimate the badge is
// neutral and the text only shows booked days ("12.5d").
func Estimate(project planner.Project, assignments []planner.Assignment) EstimateStatus {
	booked := ProjectTotalDays(assignments, project.ID)
	st := EstimateStatus{Booked: booked, Badge: BadgeNeutral, Text: formatDays(booked) + "d"}
	if project.EstimatedDays == nil || *project.EstimatedDays == 0 {
		return st
	}

	est := *project.EstimatedDays
	st.Estimated = project.EstimatedDays
	st.Remaining = est - booked
	st.Text = formatDays(booked) + "/" + formatDays(est) + "d"
	switch {
	case st.Remaining < OverdueThreshold:
		st.Badge = BadgeError
	case st.Remaining < WarningDaysThreshold:
		st.Badge = BadgeWarning
	}
	return st
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
